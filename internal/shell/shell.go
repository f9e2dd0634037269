package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"

	"github.com/charlieverse/diary/internal/diary"
)

// State is the shell's position in its run loop.
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StateExiting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateExiting:
		return "exiting"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

const (
	// Banner is printed when the shell starts.
	Banner = "Welcome to the diary shell. Type help or ? to list commands."
	// Prompt precedes every line read in line mode.
	Prompt = "diary> "
	// Goodbye is printed when the shell exits.
	Goodbye = "Diary is exiting..."
)

// Handler performs the diary operations behind shell commands.
type Handler interface {
	Append(ctx context.Context, action diary.Action) (diary.Entry, error)
	Report(ctx context.Context, days int) (diary.Report, error)
	Open(ctx context.Context, offset int) error
}

// Shell reads commands and dispatches them to a Handler.
type Shell struct {
	handler    Handler
	out        io.Writer
	logger     *log.Logger
	state      State
	err        error
	interrupts <-chan os.Signal
}

// Option customizes a Shell.
type Option func(*Shell)

// WithInterrupts replaces the process SIGINT subscription used by Run.
func WithInterrupts(ch <-chan os.Signal) Option {
	return func(s *Shell) {
		s.interrupts = ch
	}
}

// New wires a shell writing prompts and help to out and results to logger.
func New(handler Handler, out io.Writer, logger *log.Logger, opts ...Option) *Shell {
	if logger == nil {
		logger = log.Default()
	}
	s := &Shell{handler: handler, out: out, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Shell) State() State {
	return s.state
}

// Err returns the fatal error that ended the shell, if any.
func (s *Shell) Err() error {
	return s.err
}

// Execute parses and runs a single line and returns the resulting state.
func (s *Shell) Execute(ctx context.Context, line string) State {
	if s.state == StateExiting {
		return s.state
	}

	cmd, err := Parse(line)
	if err != nil {
		if errors.Is(err, ErrUnknownCommand) {
			fmt.Fprintf(s.out, "Unknown command %q. Type help for a list of commands.\n", cmd.Raw)
		} else {
			s.logger.Error("bad command", "err", err)
		}
		s.state = StateIdle
		return s.state
	}

	s.state = StateRunning
	s.state = s.dispatch(ctx, cmd)
	return s.state
}

// Exit moves the shell to Exiting and says goodbye. It is a no-op once the
// shell is already exiting.
func (s *Shell) Exit() {
	if s.state == StateExiting {
		return
	}
	s.state = StateExiting
	fmt.Fprintln(s.out, Goodbye)
}

func (s *Shell) dispatch(ctx context.Context, cmd Command) State {
	switch cmd.Kind {
	case KindEmpty:
	case KindBegin, KindStop, KindMark:
		action, _ := cmd.Action()
		entry, err := s.handler.Append(ctx, action)
		if errors.Is(err, diary.ErrAppend) {
			s.err = err
			s.Exit()
			return StateExiting
		}
		if err != nil {
			s.logger.Error("append failed", "err", err)
			break
		}
		s.logger.Info(entry.Line())
	case KindOpen:
		if err := s.handler.Open(ctx, cmd.Offset); err != nil {
			s.logger.Error("open failed", "err", err)
		}
	case KindTimestamps:
		report, err := s.handler.Report(ctx, cmd.Days)
		if err != nil {
			s.logger.Error("timestamps failed", "err", err)
			break
		}
		report.Log(s.logger)
	case KindHelp:
		fmt.Fprint(s.out, HelpText)
	case KindQuit:
		s.Exit()
		return StateExiting
	}
	return StateIdle
}

// Run is the line-mode loop: it prints a prompt, reads a line from in and
// executes it until q, end of input, an interrupt while idle, or ctx is
// cancelled. Input is read only while a prompt is showing, so a command such
// as o leaves stdin to the editor. Interrupts that arrive while a command
// runs belong to that command and are discarded. A failed append ends the
// loop and is returned.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	interrupts := s.interrupts
	if interrupts == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt)
		defer signal.Stop(ch)
		interrupts = ch
	}

	next := make(chan struct{}, 1)
	results := make(chan readResult, 1)
	done := make(chan struct{})
	defer close(done)
	go readLines(in, next, results, done)

	fmt.Fprintln(s.out, Banner)
	for s.state != StateExiting {
		fmt.Fprint(s.out, Prompt)
		next <- struct{}{}

		select {
		case r := <-results:
			if r.eof {
				fmt.Fprintln(s.out)
				s.Exit()
				if r.err != nil {
					return fmt.Errorf("read input: %w", r.err)
				}
				break
			}
			s.Execute(ctx, r.line)
			drainSignals(interrupts)
		case <-interrupts:
			fmt.Fprintln(s.out)
			s.Exit()
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			s.Exit()
			return ctx.Err()
		}
	}
	return s.err
}

type readResult struct {
	line string
	eof  bool
	err  error
}

// readLines reads one line per request on next until end of input or done.
func readLines(in io.Reader, next <-chan struct{}, results chan<- readResult, done <-chan struct{}) {
	scanner := bufio.NewScanner(in)
	for {
		select {
		case <-next:
		case <-done:
			return
		}
		if scanner.Scan() {
			results <- readResult{line: scanner.Text()}
			continue
		}
		results <- readResult{eof: true, err: scanner.Err()}
		return
	}
}

func drainSignals(ch <-chan os.Signal) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
