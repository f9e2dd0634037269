package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWritesInfoWithPrefix(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, false)

	logger.Info("Begin 09:00:00 host", "file", "2025-11-02.txt")

	out := buf.String()
	if !strings.Contains(out, Prefix) {
		t.Fatalf("output %q missing prefix", out)
	}
	if !strings.Contains(out, "Begin 09:00:00 host") || !strings.Contains(out, "2025-11-02.txt") {
		t.Fatalf("output %q missing message or file", out)
	}
}

func TestNewHidesDebugUnlessVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	New(buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug output written without verbose: %q", buf.String())
	}

	New(buf, true).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("debug output missing with verbose: %q", buf.String())
	}
}
