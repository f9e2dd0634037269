package diary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"

	"github.com/charmbracelet/log"

	"github.com/charlieverse/diary/internal/crypt"
	"github.com/charlieverse/diary/internal/files"
)

// Opener hands a decrypted diary file to the configured editor.
type Opener struct {
	manager    *files.Manager
	vault      *crypt.Vault
	editorPath string
	editorArgs []string
	logger     *log.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	interrupts <-chan os.Signal
}

// NewOpener wires an opener that launches editorPath with editorArgs followed
// by the diary file path.
func NewOpener(manager *files.Manager, vault *crypt.Vault, editorPath string, editorArgs []string, logger *log.Logger) *Opener {
	if logger == nil {
		logger = log.Default()
	}
	return &Opener{
		manager:    manager,
		vault:      vault,
		editorPath: editorPath,
		editorArgs: append([]string(nil), editorArgs...),
		logger:     logger,
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
}

// SetStdio redirects the editor's standard streams.
func (o *Opener) SetStdio(stdin io.Reader, stdout, stderr io.Writer) {
	o.stdin, o.stdout, o.stderr = stdin, stdout, stderr
}

// SetInterrupts replaces the process SIGINT subscription used while waiting
// for the editor.
func (o *Opener) SetInterrupts(ch <-chan os.Signal) {
	o.interrupts = ch
}

// Open runs a full editor session for the file offset days before today and
// blocks until the editor exits. The file is encrypted again in every case.
func (o *Opener) Open(ctx context.Context, offset int) error {
	session, err := o.Begin(offset)
	if err != nil {
		return err
	}
	o.logger.Info("opening diary", "file", session.Path())

	runErr := session.Run(ctx)
	closeErr := session.Close()
	return errors.Join(runErr, closeErr)
}

// Begin prepares an editor session: the file is created when absent and
// decrypted, and the editor command is built but not started. Callers must
// Close the session.
func (o *Opener) Begin(offset int) (*Session, error) {
	if o == nil || o.manager == nil {
		return nil, errors.New("opener not initialized with file manager")
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOffset, offset)
	}

	path, err := o.manager.EnsureDayFile(o.manager.DateForOffset(offset))
	if err != nil {
		return nil, err
	}
	if err := o.vault.DecryptFile(path); err != nil {
		return nil, err
	}

	args := append(append([]string(nil), o.editorArgs...), path)
	cmd := exec.Command(o.editorPath, args...)
	cmd.Stdin = o.stdin
	cmd.Stdout = o.stdout
	cmd.Stderr = o.stderr

	return &Session{path: path, cmd: cmd, vault: o.vault, logger: o.logger, interrupts: o.interrupts}, nil
}

// Session is one editor invocation on a decrypted diary file.
type Session struct {
	path       string
	cmd        *exec.Cmd
	vault      *crypt.Vault
	logger     *log.Logger
	interrupts <-chan os.Signal
	closed     bool
}

// Path returns the diary file being edited.
func (s *Session) Path() string {
	return s.path
}

// Command returns the prepared editor process.
func (s *Session) Command() *exec.Cmd {
	return s.cmd
}

// Run starts the editor and waits for it. Interrupts received while waiting
// are logged and swallowed; cancelling ctx kills the editor.
func (s *Session) Run(ctx context.Context) error {
	interrupts := s.interrupts
	if interrupts == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt)
		defer signal.Stop(ch)
		interrupts = ch
	}

	if err := s.cmd.Start(); err != nil {
		return fmt.Errorf("start editor: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- s.cmd.Wait()
	}()

	interrupted := false
	for {
		select {
		case err := <-done:
			if err != nil && !interrupted {
				return fmt.Errorf("editor exited: %w", err)
			}
			return nil
		case <-interrupts:
			interrupted = true
			s.logger.Warn("interrupted while waiting for the editor", "file", s.path)
		case <-ctx.Done():
			_ = s.cmd.Process.Kill()
			<-done
			return ctx.Err()
		}
	}
}

// Close encrypts the diary file again. It is safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.vault.EncryptFile(s.path)
}
