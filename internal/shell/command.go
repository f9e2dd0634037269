package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charlieverse/diary/internal/diary"
)

// Kind enumerates the commands understood by the shell.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindBegin
	KindStop
	KindMark
	KindOpen
	KindTimestamps
	KindHelp
	KindQuit
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindBegin:
		return "begin"
	case KindStop:
		return "stop"
	case KindMark:
		return "mark"
	case KindOpen:
		return "open"
	case KindTimestamps:
		return "timestamps"
	case KindHelp:
		return "help"
	case KindQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command is one parsed line of shell input.
type Command struct {
	Kind Kind
	// Offset is the day offset for KindOpen.
	Offset int
	// Days is the report window for KindTimestamps.
	Days int
	Raw  string
}

// Action maps the action kinds onto diary actions.
func (c Command) Action() (diary.Action, bool) {
	switch c.Kind {
	case KindBegin:
		return diary.ActionBegin, true
	case KindStop:
		return diary.ActionStop, true
	case KindMark:
		return diary.ActionMark, true
	default:
		return 0, false
	}
}

// HelpText lists the shell commands.
const HelpText = `Commands:
  b                  append a Begin entry
  s                  append a Stop entry
  m                  append a Mark entry
  o [offset]         open the diary from offset days ago in the editor
  timestamps [days]  list action lines from the last days (default 14)
  help, ?            show this help
  q, quit, exit      leave the shell
`

// Parse turns a line of input into a Command. Blank input parses to
// KindEmpty; anything unrecognised yields KindUnknown and ErrUnknownCommand.
func Parse(line string) (Command, error) {
	cmd := Command{Raw: line}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		cmd.Kind = KindEmpty
		return cmd, nil
	}

	name, args := strings.ToLower(fields[0]), fields[1:]
	switch name {
	case "o", "open":
		cmd.Kind = KindOpen
		offset, err := optionalCount(name, args, 0)
		if err != nil {
			return cmd, err
		}
		cmd.Offset = offset
		return cmd, nil
	case "timestamps", "timerecord":
		cmd.Kind = KindTimestamps
		days, err := optionalCount(name, args, diary.DefaultReportDays)
		if err != nil {
			return cmd, err
		}
		cmd.Days = days
		return cmd, nil
	case "help", "?":
		cmd.Kind = KindHelp
		return cmd, nil
	case "q", "quit", "exit":
		cmd.Kind = KindQuit
		return cmd, nil
	}

	action, err := diary.ParseAction(name)
	if err != nil {
		cmd.Kind = KindUnknown
		return cmd, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}
	switch action {
	case diary.ActionBegin:
		cmd.Kind = KindBegin
	case diary.ActionStop:
		cmd.Kind = KindStop
	case diary.ActionMark:
		cmd.Kind = KindMark
	}
	if len(args) > 0 {
		return cmd, fmt.Errorf("%w: %s takes no arguments", ErrBadArgument, name)
	}
	return cmd, nil
}

func optionalCount(name string, args []string, fallback int) (int, error) {
	switch len(args) {
	case 0:
		return fallback, nil
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %s expects a non-negative number, got %q", ErrBadArgument, name, args[0])
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s takes at most one argument", ErrBadArgument, name)
	}
}
