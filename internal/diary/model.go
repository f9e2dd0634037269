package diary

import (
	"fmt"
	"strings"
	"time"
)

// Action is one of the markers recorded at the start of an entry line.
type Action uint8

const (
	// ActionBegin marks the start of a work period.
	ActionBegin Action = iota
	// ActionStop marks the end of a work period.
	ActionStop
	// ActionMark records a point in time.
	ActionMark
)

var actionTable = []struct {
	action Action
	letter string
	word   string
}{
	{ActionBegin, "b", "Begin"},
	{ActionStop, "s", "Stop"},
	{ActionMark, "m", "Mark"},
}

// Actions returns every action in declaration order.
func Actions() []Action {
	out := make([]Action, 0, len(actionTable))
	for _, row := range actionTable {
		out = append(out, row.action)
	}
	return out
}

// ParseAction maps a command letter (b, s, m) or action word to an Action.
func ParseAction(value string) (Action, error) {
	value = strings.TrimSpace(value)
	for _, row := range actionTable {
		if value == row.letter || strings.EqualFold(value, row.word) {
			return row.action, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (expected b|s|m)", ErrUnknownAction, value)
}

// Word returns the word written into the diary, e.g. "Begin".
func (a Action) Word() string {
	for _, row := range actionTable {
		if row.action == a {
			return row.word
		}
	}
	return ""
}

// Letter returns the single-letter command for the action.
func (a Action) Letter() string {
	for _, row := range actionTable {
		if row.action == a {
			return row.letter
		}
	}
	return ""
}

func (a Action) String() string {
	if w := a.Word(); w != "" {
		return w
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// Entry is a single line appended to a diary file.
type Entry struct {
	Action Action
	Time   time.Time
	Stamp  string
	Host   string
}

// Line renders the entry the way it is stored on disk.
func (e Entry) Line() string {
	return e.Action.Word() + " " + e.Stamp + " " + e.Host
}
