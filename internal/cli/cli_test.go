package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/charlieverse/diary/internal/config"
	"github.com/charlieverse/diary/internal/crypt"
	"github.com/charlieverse/diary/internal/diary"
	"github.com/charlieverse/diary/internal/files"
)

var testNow = time.Date(2025, time.November, 21, 8, 15, 0, 0, time.Local)

type testEnv struct {
	configPath string
	base       string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	base := filepath.Join(dir, "diary")
	t.Setenv(files.HomeEnv, base)
	t.Setenv("EDITOR", "true")
	return testEnv{configPath: filepath.Join(dir, "diary.conf.json"), base: base}
}

func newTestRoot(stdin io.Reader) (*cobra.Command, *bytes.Buffer) {
	opts := &rootOptions{
		managerOpts: []files.Option{files.WithClock(func() time.Time { return testNow })},
		writerOpts: []diary.WriterOption{diary.WithHostname(func() (string, error) {
			return "testhost", nil
		})},
	}
	cmd := newRootCommand(context.Background(), opts)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	if stdin != nil {
		cmd.SetIn(stdin)
	} else {
		cmd.SetIn(strings.NewReader(""))
	}
	return cmd, buf
}

func runCommand(env testEnv, stdin io.Reader, args ...string) (string, error) {
	cmd, buf := newTestRoot(stdin)
	cmd.SetArgs(append(args, "--config", env.configPath))
	err := cmd.Execute()
	return buf.String(), err
}

func executeCommand(t *testing.T, env testEnv, args ...string) string {
	t.Helper()
	out, err := runCommand(env, nil, args...)
	if err != nil {
		t.Fatalf("cmd.Execute(%q): %v\n%s", args, err, out)
	}
	return out
}

func assertContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output %q missing substring %q", output, want)
	}
}

func assertNotContains(t *testing.T, output, want string) {
	t.Helper()
	if strings.Contains(output, want) {
		t.Fatalf("output %q unexpectedly contained substring %q", output, want)
	}
}

// readDay returns the plaintext of the diary file for the fake clock's day.
func readDay(t *testing.T, env testEnv, offset int) string {
	t.Helper()
	cfg, err := config.Load(env.configPath)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	mgr, err := files.NewManager(cfg.DiaryBase, files.WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	var cipher *crypt.Cipher
	if cfg.EncryptionEnabled() {
		if cipher, err = crypt.NewCipher(cfg.Key); err != nil {
			t.Fatalf("NewCipher: %v", err)
		}
	}
	vault := crypt.NewVault(cipher, false, log.New(io.Discard))

	path := mgr.PathForOffset(offset)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if cipher != nil && !crypt.IsEncrypted(raw) {
		t.Fatalf("diary file %s is not encrypted at rest: %q", path, raw)
	}
	if err := vault.DecryptFile(path); err != nil {
		t.Fatalf("DecryptFile: %v", err)
	}
	plain, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if err := vault.EncryptFile(path); err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}
	return string(plain)
}

func writeConfig(t *testing.T, env testEnv, mutate func(*config.Config)) {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("config.Default: %v", err)
	}
	mutate(&cfg)
	if err := config.Write(env.configPath, cfg, true); err != nil {
		t.Fatalf("config.Write: %v", err)
	}
}
