package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/toparvion/analogtail/internal/logtail"
)

// diagnostics shows the tail of analogtail's own log file.
type diagnostics struct {
	viewport viewport.Model
	err      error
	loaded   bool
}

type diagnosticsMsg struct {
	lines []string
	err   error
}

func readDiagnosticsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return diagnosticsMsg{}
		}
		lines, err := logtail.Read(path, DiagnosticsLines)
		return diagnosticsMsg{lines: lines, err: err}
	}
}

func (d *diagnostics) resize(width, height int) {
	d.viewport.Width = max(width, 0)
	d.viewport.Height = max(height-2, 1)
}

func (d *diagnostics) load(lines []string, err error) {
	d.loaded = true
	d.err = err
	d.viewport.SetContent(strings.Join(lines, "\n"))
	d.viewport.GotoBottom()
}

func (m Model) handleDiagnosticsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Diagnostics), key.Matches(msg, m.keys.Quit):
		m.mode = ModeConsole
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.diagnostics.viewport.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.diagnostics.viewport.GotoTop()
		return m, nil
	}
	var cmd tea.Cmd
	m.diagnostics.viewport, cmd = m.diagnostics.viewport.Update(msg)
	return m, cmd
}

func (m Model) renderDiagnostics() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("analogtail log") + " " +
		styles.FaintText.Render(orDash(m.logFile))

	var body string
	switch {
	case m.logFile == "":
		body = styles.MutedText.Render("Logging to a file is disabled.")
	case !m.diagnostics.loaded:
		body = styles.MutedText.Render("Reading...")
	case m.diagnostics.err != nil:
		body = styles.DangerText.Render(m.diagnostics.err.Error())
	default:
		body = m.diagnostics.viewport.View()
	}
	return title + "\n" + body + "\n" + styles.FaintText.Render("esc to go back")
}
