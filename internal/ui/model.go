package ui

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/charlieverse/diary/internal/diary"
	"github.com/charlieverse/diary/internal/shell"
)

// maxHistory bounds the scrollback kept in the view.
const maxHistory = 200

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	hintStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
)

// Opener starts editor sessions on diary files.
type Opener interface {
	Begin(offset int) (*diary.Session, error)
}

// Model is the Bubble Tea front end of the interactive shell.
type Model struct {
	ctx    context.Context
	shell  *shell.Shell
	opener Opener
	output *Output
	logger *log.Logger

	input   textinput.Model
	history []string
	mode    mode
	err     error
}

type mode uint8

const (
	modeInput mode = iota
	modeRunning
	modeEditing
	modeDone
)

type commandResultMsg struct {
	state shell.State
}

type editorFinishedMsg struct {
	session *diary.Session
	err     error
}

// NewModel wires the shell into a Bubble Tea model. output must be the writer
// the shell and logger were built with.
func NewModel(ctx context.Context, sh *shell.Shell, opener Opener, output *Output, logger *log.Logger) Model {
	input := textinput.New()
	input.Prompt = promptStyle.Render(shell.Prompt)
	input.Placeholder = "b, s, m, o [offset], timestamps [days], help, q"
	input.Focus()

	if logger == nil {
		logger = log.New(output)
	}

	return Model{
		ctx:    ctx,
		shell:  sh,
		opener: opener,
		output: output,
		logger: logger,
		input:  input,
		mode:   modeInput,
	}
}

// Err returns the fatal error that ended the session, if any.
func (m Model) Err() error {
	return m.err
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update routes key presses and command results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case commandResultMsg:
		return m.handleCommandResult(msg)
	case editorFinishedMsg:
		return m.handleEditorFinished(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		if m.mode != modeInput {
			return m, nil
		}
		m.shell.Exit()
		m.collectOutput()
		m.mode = modeDone
		return m, tea.Quit
	case tea.KeyEnter:
		if m.mode != modeInput {
			return m, nil
		}
		return m.submit()
	}

	if m.mode != modeInput {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()
	m.appendHistory(shell.Prompt + line)

	parsed, err := shell.Parse(line)
	if err == nil && parsed.Kind == shell.KindOpen {
		return m.beginEdit(parsed.Offset)
	}

	m.mode = modeRunning
	sh, ctx := m.shell, m.ctx
	return m, func() tea.Msg {
		return commandResultMsg{state: sh.Execute(ctx, line)}
	}
}

func (m Model) beginEdit(offset int) (tea.Model, tea.Cmd) {
	session, err := m.opener.Begin(offset)
	if err != nil {
		m.logger.Error("open failed", "err", err)
		m.collectOutput()
		return m, nil
	}

	m.logger.Info("opening diary", "file", session.Path())
	m.collectOutput()
	m.mode = modeEditing
	return m, tea.Exec(sessionCommand{ctx: m.ctx, session: session}, func(err error) tea.Msg {
		return editorFinishedMsg{session: session, err: err}
	})
}

func (m Model) handleCommandResult(msg commandResultMsg) (tea.Model, tea.Cmd) {
	m.collectOutput()
	if msg.state == shell.StateExiting {
		m.err = m.shell.Err()
		if m.err != nil {
			m.appendHistory(errorStyle.Render("error: " + m.err.Error()))
		}
		m.mode = modeDone
		return m, tea.Quit
	}
	m.mode = modeInput
	return m, nil
}

func (m Model) handleEditorFinished(msg editorFinishedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Error("editor failed", "err", msg.err)
	}
	if err := msg.session.Close(); err != nil {
		m.logger.Error("re-encrypt failed", "file", msg.session.Path(), "err", err)
	}
	m.collectOutput()
	m.mode = modeInput
	return m, nil
}

func (m *Model) collectOutput() {
	text := strings.TrimRight(m.output.Drain(), "\n")
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		m.appendHistory(line)
	}
}

func (m *Model) appendHistory(line string) {
	m.history = append(m.history, line)
	if over := len(m.history) - maxHistory; over > 0 {
		m.history = m.history[over:]
	}
}

// View renders the banner, scrollback and prompt.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(bannerStyle.Render(shell.Banner))
	b.WriteString("\n\n")
	for _, line := range m.history {
		b.WriteString(line)
		b.WriteString("\n")
	}

	switch m.mode {
	case modeDone:
		return b.String()
	case modeRunning:
		b.WriteString(hintStyle.Render("working..."))
	case modeEditing:
		b.WriteString(hintStyle.Render("waiting for the editor..."))
	default:
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	return b.String()
}

// sessionCommand adapts a diary editor session to tea.ExecCommand so the
// session's own interrupt handling applies while the terminal is released.
type sessionCommand struct {
	ctx     context.Context
	session *diary.Session
}

func (c sessionCommand) Run() error {
	return c.session.Run(c.ctx)
}

func (c sessionCommand) SetStdin(r io.Reader) {
	if cmd := c.session.Command(); cmd.Stdin == nil {
		cmd.Stdin = r
	}
}

func (c sessionCommand) SetStdout(w io.Writer) {
	if cmd := c.session.Command(); cmd.Stdout == nil {
		cmd.Stdout = w
	}
}

func (c sessionCommand) SetStderr(w io.Writer) {
	if cmd := c.session.Command(); cmd.Stderr == nil {
		cmd.Stderr = w
	}
}
