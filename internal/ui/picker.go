package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/toparvion/analogtail/internal/analog"
)

// choiceItem adapts a choice to the list component.
type choiceItem struct {
	choice analog.Choice
}

func (i choiceItem) Title() string {
	if i.choice.Title != "" {
		return i.choice.Title
	}
	return analog.FileName(i.choice.Path)
}

func (i choiceItem) Description() string {
	return i.choice.Group + " · " + analog.NodeLabel(i.choice) + " · " + i.choice.ID()
}

func (i choiceItem) FilterValue() string {
	return i.choice.Group + " " + i.choice.Title + " " + i.choice.ID()
}

// picker lists the logs the server offers.
type picker struct {
	list list.Model
}

func newPicker() picker {
	d := list.NewDefaultDelegate()
	l := list.New(nil, d, 0, 0)
	l.Title = "Choose a log"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	return picker{list: l}
}

// setChoices replaces the items and puts the cursor on the log at path.
func (p *picker) setChoices(choices []analog.Choice, path string) {
	items := make([]list.Item, len(choices))
	cursor := 0
	for i, c := range choices {
		items[i] = choiceItem{choice: c}
		if path != "" && analog.PathsEqual(analog.AddLeadingSlash(c.ID()), analog.AddLeadingSlash(path)) {
			cursor = i
		}
	}
	p.list.ResetFilter()
	p.list.SetItems(items)
	if len(items) > 0 {
		p.list.Select(cursor)
	}
}

func (p *picker) resize(width, height int) {
	p.list.SetSize(max(width-4, 10), max(height-4, 5))
}

func (p picker) selected() (analog.Choice, bool) {
	item, ok := p.list.SelectedItem().(choiceItem)
	if !ok {
		return analog.Choice{}, false
	}
	return item.choice, true
}

// updatePicker routes input to the list; enter switches the view to the chosen log.
func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.picker.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(keyMsg, m.keys.Escape):
			m.mode = ModeConsole
			return m, nil
		case key.Matches(keyMsg, m.keys.Confirm):
			m.mode = ModeConsole
			choice, ok := m.picker.selected()
			if !ok {
				return m, nil
			}
			m.session.Controller().Select(choice)
			m.redraw()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.picker.list, cmd = m.picker.list.Update(msg)
	return m, cmd
}

func (m Model) renderPicker() string {
	if len(m.picker.list.Items()) == 0 {
		styles := m.theme.Styles()
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("No logs offered by the server yet. Press esc to go back."))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(m.picker.list.View())
}
