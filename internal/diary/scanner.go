package diary

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/charlieverse/diary/internal/crypt"
	"github.com/charlieverse/diary/internal/files"
)

const (
	// DefaultReportDays is how far back timestamps looks when no count is given.
	DefaultReportDays = 14

	// maxLineSize bounds a single diary line read by the scanner.
	maxLineSize = 16 << 20
)

var linePattern = buildLinePattern()

func buildLinePattern() *regexp.Regexp {
	words := make([]string, 0, len(actionTable))
	for _, row := range actionTable {
		words = append(words, regexp.QuoteMeta(row.word+" "))
	}
	return regexp.MustCompile(`^(` + strings.Join(words, "|") + `)`)
}

// MatchLine reports whether line starts with an action word and which one.
func MatchLine(line string) (Action, bool) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	action, err := ParseAction(strings.TrimSpace(m[1]))
	if err != nil {
		return 0, false
	}
	return action, true
}

// Match is one action line found while scanning.
type Match struct {
	Date   time.Time
	File   string
	Action Action
	Line   string
}

// Gap is an inclusive run of days without a diary file.
type Gap struct {
	From time.Time
	To   time.Time
}

// Days returns the number of missing days in the gap.
func (g Gap) Days() int {
	return int(g.To.Sub(g.From).Hours()/24+0.5) + 1
}

// Report is the outcome of a timestamps scan, oldest first.
type Report struct {
	Start   time.Time
	End     time.Time
	Matches []Match
	Gaps    []Gap
	Skipped []string
}

// Scanner reads the action lines of recent diary files.
type Scanner struct {
	manager *files.Manager
	vault   *crypt.Vault
	logger  *log.Logger
}

// NewScanner wires a scanner.
func NewScanner(manager *files.Manager, vault *crypt.Vault, logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.Default()
	}
	return &Scanner{manager: manager, vault: vault, logger: logger}
}

// Scan walks from days ago up to today. Missing files become gaps and
// unreadable files are skipped; neither stops the scan.
func (s *Scanner) Scan(ctx context.Context, days int) (Report, error) {
	if s == nil || s.manager == nil {
		return Report{}, errors.New("scanner not initialized with file manager")
	}
	if days < 0 {
		return Report{}, fmt.Errorf("%w: %d", ErrInvalidOffset, days)
	}

	report := Report{
		Start: s.manager.DateForOffset(days),
		End:   s.manager.DateForOffset(0),
	}

	var gap *Gap
	for offset := days; offset >= 0; offset-- {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		date := s.manager.DateForOffset(offset)
		exists, err := s.manager.Exists(date)
		if err != nil {
			return report, err
		}
		if !exists {
			if gap == nil {
				gap = &Gap{From: date}
			}
			gap.To = date
			continue
		}
		if gap != nil {
			report.Gaps = append(report.Gaps, *gap)
			gap = nil
		}

		matches, err := s.scanFile(date)
		if err != nil {
			s.logger.Error("skipping diary file", "file", filepath.Base(s.manager.DayPath(date)), "err", err)
			report.Skipped = append(report.Skipped, s.manager.DayPath(date))
			continue
		}
		report.Matches = append(report.Matches, matches...)
	}
	if gap != nil {
		report.Gaps = append(report.Gaps, *gap)
	}

	return report, nil
}

func (s *Scanner) scanFile(date time.Time) (matches []Match, err error) {
	path := s.manager.DayPath(date)
	if err := s.vault.DecryptFile(path); err != nil {
		return nil, err
	}
	defer func() {
		if encErr := s.vault.EncryptFile(path); encErr != nil && err == nil {
			err = encErr
		}
	}()

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		action, ok := MatchLine(line)
		if !ok {
			continue
		}
		matches = append(matches, Match{
			Date:   date,
			File:   path,
			Action: action,
			Line:   line,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

// Log writes the report in chronological order: one info line per match and
// one warning per gap, placed where the gap ends.
func (r Report) Log(logger *log.Logger) {
	gaps := r.Gaps
	flushGapsBefore := func(day time.Time) {
		for len(gaps) > 0 && gaps[0].To.Before(day) {
			logGap(logger, gaps[0])
			gaps = gaps[1:]
		}
	}

	for _, m := range r.Matches {
		flushGapsBefore(m.Date)
		logger.Info(m.Line, "file", filepath.Base(m.File))
	}
	for _, g := range gaps {
		logGap(logger, g)
	}
}

func logGap(logger *log.Logger, g Gap) {
	from := g.From.Format(files.DayLayout)
	to := g.To.Format(files.DayLayout)
	if from == to {
		logger.Warn("no diary file", "date", from)
		return
	}
	logger.Warn("no diary files", "from", from, "to", to, "days", g.Days())
}
