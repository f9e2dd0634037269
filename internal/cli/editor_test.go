package cli

import (
	"runtime"
	"strings"
	"testing"

	"github.com/charlieverse/diary/internal/config"
)

func useAppendingEditor(t *testing.T, env testEnv) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("editor stand-in needs /bin/sh")
	}
	writeConfig(t, env, func(cfg *config.Config) {
		cfg.EditorPath = "/bin/sh"
		cfg.EditorArgs = []string{"-c", `printf '\nnotes' >> "$0"`}
	})
}

func TestOpenCommandEditsPastDay(t *testing.T) {
	env := newTestEnv(t)
	useAppendingEditor(t, env)

	out := executeCommand(t, env, "o", "2")
	assertContains(t, out, "opening diary")
	if got := readDay(t, env, 2); got != "\nnotes" {
		t.Fatalf("diary contents = %q", got)
	}
}

func TestOpenFlagAfterAppend(t *testing.T) {
	env := newTestEnv(t)
	useAppendingEditor(t, env)

	executeCommand(t, env, "b", "--open")
	if got := readDay(t, env, 0); got != "Begin 08:15:00 testhost\nnotes" {
		t.Fatalf("diary contents = %q", got)
	}
}

func TestShellCommandLineMode(t *testing.T) {
	env := newTestEnv(t)
	useAppendingEditor(t, env)

	out, err := runCommand(env, strings.NewReader("b\nbogus\no\nm\ntimestamps 0\nq\n"), "c")
	if err != nil {
		t.Fatalf("c: %v\n%s", err, out)
	}
	assertContains(t, out, "Welcome to the diary shell")
	assertContains(t, out, `Unknown command "bogus"`)
	assertContains(t, out, "Diary is exiting...")

	want := "Begin 08:15:00 testhost\nnotes\nMark 08:15:00 testhost"
	if got := readDay(t, env, 0); got != want {
		t.Fatalf("diary contents = %q, want %q", got, want)
	}
}
