package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charlieverse/diary/internal/files"
)

const (
	// FileName is the default configuration file name inside the home directory.
	FileName = ".diary.conf.json"

	// DefaultTimestampFormat renders HH:MM:SS.
	DefaultTimestampFormat = "%H:%M:%S"

	keySize = 32
)

var fallbackEditors = []string{"nvim", "vim", "vi", "nano"}

// DefaultPath returns $HOME/.diary.conf.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Default builds the document written by create_config, including a freshly
// generated key.
func Default() (Config, error) {
	key, err := GenerateKey()
	if err != nil {
		return Config{}, err
	}
	base, err := files.ResolveBasePath()
	if err != nil {
		return Config{}, fmt.Errorf("resolve diary base: %w", err)
	}
	return Config{
		Key:             key,
		EditorPath:      DefaultEditor(),
		EditorArgs:      []string{},
		TimestampFormat: DefaultTimestampFormat,
		DiaryBase:       base,
		PlaintextPolicy: PlaintextAccept,
	}, nil
}

// GenerateKey returns 32 random bytes encoded as unpadded base64url.
func GenerateKey() (string, error) {
	buf := make([]byte, keySize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// DefaultEditor prefers $EDITOR, then the first known editor found on PATH.
func DefaultEditor() string {
	if ed := strings.TrimSpace(os.Getenv("EDITOR")); ed != "" {
		return ed
	}
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	for _, name := range fallbackEditors {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	return "vi"
}
