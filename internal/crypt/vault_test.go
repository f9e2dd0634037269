package crypt

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestVault(t *testing.T, rejectPlaintext bool) *Vault {
	t.Helper()
	return NewVault(newTestCipher(t, testKey), rejectPlaintext, log.New(io.Discard))
}

func writeDiary(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "2025-11-02.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func readDiary(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(data)
}

func TestVaultEncryptThenDecryptRestoresFile(t *testing.T) {
	const original = "Begin 09:00:00 host\nStop 17:00:00 host"
	vault := newTestVault(t, false)
	path := writeDiary(t, original)

	if err := vault.EncryptFile(path); err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}
	sealed := readDiary(t, path)
	if !IsEncrypted([]byte(sealed)) {
		t.Fatalf("file not sealed after EncryptFile: %q", sealed)
	}

	if err := vault.DecryptFile(path); err != nil {
		t.Fatalf("DecryptFile: %v", err)
	}
	if got := readDiary(t, path); got != original {
		t.Fatalf("file after round trip = %q, want %q", got, original)
	}
}

func TestVaultEncryptSkipsSealedAndEmptyFiles(t *testing.T) {
	vault := newTestVault(t, false)

	empty := writeDiary(t, "")
	if err := vault.EncryptFile(empty); err != nil {
		t.Fatalf("EncryptFile empty: %v", err)
	}
	if got := readDiary(t, empty); got != "" {
		t.Fatalf("empty file changed to %q", got)
	}

	path := writeDiary(t, "Mark 10:00:00 host")
	if err := vault.EncryptFile(path); err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}
	first := readDiary(t, path)
	if err := vault.EncryptFile(path); err != nil {
		t.Fatalf("EncryptFile second: %v", err)
	}
	if second := readDiary(t, path); second != first {
		t.Fatalf("sealed file was encrypted twice")
	}
}

func TestVaultDecryptAcceptsPlaintext(t *testing.T) {
	vault := newTestVault(t, false)
	path := writeDiary(t, "Begin 08:00:00 host")

	if err := vault.DecryptFile(path); err != nil {
		t.Fatalf("DecryptFile: %v", err)
	}
	if got := readDiary(t, path); got != "Begin 08:00:00 host" {
		t.Fatalf("plaintext file changed to %q", got)
	}
}

func TestVaultDecryptRejectsPlaintextByPolicy(t *testing.T) {
	vault := newTestVault(t, true)
	path := writeDiary(t, "Begin 08:00:00 host")

	if err := vault.DecryptFile(path); !errors.Is(err, ErrPlaintextRejected) {
		t.Fatalf("DecryptFile error = %v, want ErrPlaintextRejected", err)
	}
}

func TestVaultDecryptSurfacesCorruption(t *testing.T) {
	vault := newTestVault(t, false)
	corrupt := Marker + "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA\n"
	path := writeDiary(t, corrupt)

	if err := vault.DecryptFile(path); !errors.Is(err, ErrDecryption) {
		t.Fatalf("DecryptFile error = %v, want ErrDecryption", err)
	}
	if got := readDiary(t, path); got != corrupt {
		t.Fatalf("corrupt file was modified: %q", got)
	}
}

func TestVaultMissingFileIsNothingToDo(t *testing.T) {
	vault := newTestVault(t, false)
	path := filepath.Join(t.TempDir(), "absent.txt")

	if err := vault.DecryptFile(path); err != nil {
		t.Fatalf("DecryptFile missing: %v", err)
	}
	if err := vault.EncryptFile(path); err != nil {
		t.Fatalf("EncryptFile missing: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file was created: %v", err)
	}
}

func TestVaultDisabledIsNoop(t *testing.T) {
	vault := NewVault(nil, true, log.New(io.Discard))
	path := writeDiary(t, "Begin 08:00:00 host")

	if vault.Enabled() {
		t.Fatalf("Enabled() = true without a cipher")
	}
	if err := vault.EncryptFile(path); err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}
	if err := vault.DecryptFile(path); err != nil {
		t.Fatalf("DecryptFile: %v", err)
	}
	if got := readDiary(t, path); got != "Begin 08:00:00 host" {
		t.Fatalf("disabled vault changed file to %q", got)
	}
}

func TestVaultPreservesFileMode(t *testing.T) {
	vault := newTestVault(t, false)
	path := writeDiary(t, "Begin 08:00:00 host")
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatalf("Chmod: %v", err)
	}

	if err := vault.EncryptFile(path); err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("mode after encrypt = %o, want 600", perm)
	}
}
