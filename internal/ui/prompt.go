package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// prompt asks for a log path the server may not offer yet.
type prompt struct {
	input textinput.Model
}

func newPrompt() prompt {
	ti := textinput.New()
	ti.Placeholder = "/var/log/app.log or node://host/path"
	ti.Prompt = "Path: "
	ti.CharLimit = 1024
	return prompt{input: ti}
}

func (p *prompt) open(path string) tea.Cmd {
	p.input.SetValue(path)
	p.input.CursorEnd()
	return p.input.Focus()
}

func (p *prompt) resize(width int) {
	p.input.Width = max(width-12, 10)
}

// updatePrompt edits the path; enter applies it, esc abandons it.
func (m Model) updatePrompt(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Escape):
			m.prompt.input.Blur()
			m.mode = ModeConsole
			return m, nil
		case key.Matches(keyMsg, m.keys.Confirm):
			m.prompt.input.Blur()
			m.mode = ModeConsole
			path := strings.TrimSpace(m.prompt.input.Value())
			if path == "" {
				return m, nil
			}
			m.session.Controller().ChangePath(path)
			m.redraw()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	return m, cmd
}

func (m Model) renderPrompt() string {
	styles := m.theme.Styles()
	body := styles.Text.Bold(true).Render("Watch another log") + "\n\n" +
		m.prompt.input.View() + "\n\n" +
		styles.FaintText.Render("enter to watch · esc to cancel")
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 2).
		Width(max(m.width-8, 20))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal.Render(body))
}
