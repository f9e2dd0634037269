package diary

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/charlieverse/diary/internal/crypt"
	"github.com/charlieverse/diary/internal/files"
)

const testKey = "Jw7y1Bq9pX3l0Vt6cR2mN8sK5hD4fG1aZ0xE7uQ2wYk"

var testNow = time.Date(2025, time.November, 12, 9, 15, 30, 0, time.Local)

func newTestManager(t *testing.T, now time.Time) *files.Manager {
	t.Helper()
	mgr, err := files.NewManager(t.TempDir(), files.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return mgr
}

func newTestVault(t *testing.T) *crypt.Vault {
	t.Helper()
	c, err := crypt.NewCipher(testKey)
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	return crypt.NewVault(c, false, discardLogger())
}

func newTestWriter(t *testing.T, mgr *files.Manager, vault *crypt.Vault) *Writer {
	t.Helper()
	w, err := NewWriter(mgr, vault, "%H:%M:%S", WithHostname(func() (string, error) { return "testhost", nil }))
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	return w
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func readPlain(t *testing.T, vault *crypt.Vault, path string) string {
	t.Helper()
	if err := vault.DecryptFile(path); err != nil {
		t.Fatalf("DecryptFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(data)
}

func writePlain(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}
