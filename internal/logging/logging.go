// Package logging builds the process logger.
package logging

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Prefix tags every log line.
const Prefix = "diary"

// New returns a logger writing to w. Debug output is enabled with verbose.
func New(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		ReportTimestamp: false,
		Level:           log.InfoLevel,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	styles := log.DefaultStyles()
	styles.Keys["file"] = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	styles.Values["file"] = lipgloss.NewStyle().Bold(true)
	styles.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	logger.SetStyles(styles)

	return logger
}
