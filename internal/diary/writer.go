package diary

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/charlieverse/diary/internal/crypt"
	"github.com/charlieverse/diary/internal/files"
)

// Writer appends action entries to today's diary file.
type Writer struct {
	manager  *files.Manager
	vault    *crypt.Vault
	stamp    *strftime.Strftime
	hostname func() (string, error)
}

// WriterOption customizes a Writer.
type WriterOption func(*Writer)

// WithHostname replaces os.Hostname.
func WithHostname(fn func() (string, error)) WriterOption {
	return func(w *Writer) {
		w.hostname = fn
	}
}

// NewWriter wires a writer. timestampFormat is a strftime pattern.
func NewWriter(manager *files.Manager, vault *crypt.Vault, timestampFormat string, opts ...WriterOption) (*Writer, error) {
	stamp, err := strftime.New(timestampFormat)
	if err != nil {
		return nil, fmt.Errorf("compile timestamp format %q: %w", timestampFormat, err)
	}
	w := &Writer{
		manager:  manager,
		vault:    vault,
		stamp:    stamp,
		hostname: os.Hostname,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Append writes one entry for action to today's file. An existing file is
// decrypted first and the file is encrypted again once the entry is written.
func (w *Writer) Append(ctx context.Context, action Action) (Entry, error) {
	if w == nil || w.manager == nil {
		return Entry{}, errors.New("writer not initialized with file manager")
	}
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	if action.Word() == "" {
		return Entry{}, fmt.Errorf("%w: %v", ErrUnknownAction, action)
	}

	host, err := w.hostname()
	if err != nil {
		return Entry{}, fmt.Errorf("resolve hostname: %w", err)
	}

	date := w.manager.Today()
	path := w.manager.DayPath(date)

	exists, err := w.manager.Exists(date)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: stat %s: %v", ErrAppend, path, err)
	}
	if exists {
		if err := w.vault.DecryptFile(path); err != nil {
			return Entry{}, err
		}
	}

	now := w.manager.Now().In(date.Location())
	entry := Entry{
		Action: action,
		Time:   now,
		Stamp:  w.stamp.FormatString(now),
		Host:   host,
	}

	if err := w.appendLine(date, entry.Line()); err != nil {
		return Entry{}, fmt.Errorf("%w: %s: %v", ErrAppend, path, err)
	}

	if err := w.vault.EncryptFile(path); err != nil {
		return entry, err
	}
	return entry, nil
}

func (w *Writer) appendLine(date time.Time, line string) error {
	file, err := w.manager.OpenAppend(date)
	if err != nil {
		return err
	}

	sep, err := needsSeparator(file)
	if err != nil {
		file.Close()
		return err
	}
	if sep {
		line = "\n" + line
	}

	if _, err := file.WriteString(line); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// needsSeparator reports whether the file already holds content, in which
// case the new entry starts on its own line.
func needsSeparator(file *os.File) (bool, error) {
	info, err := file.Stat()
	if err != nil {
		return false, err
	}
	return info.Size() > 0, nil
}
