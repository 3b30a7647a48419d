package ui

import (
	"fmt"
	"regexp"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// searchState holds the console search. Matches are line indices into the console.
type searchState struct {
	active  bool
	input   textinput.Model
	regex   *regexp.Regexp
	matches []int
	idx     int
}

func newSearch() searchState {
	ti := textinput.New()
	ti.Placeholder = "Search console..."
	ti.Prompt = "/"
	ti.CharLimit = 100
	return searchState{input: ti}
}

// find collects the lines matching the current pattern.
func (s *searchState) find(lines []string) {
	s.matches = s.matches[:0]
	if s.regex == nil {
		return
	}
	for i, line := range lines {
		if s.regex.MatchString(ansi.Strip(line)) {
			s.matches = append(s.matches, i)
		}
	}
	if s.idx >= len(s.matches) {
		s.idx = 0
	}
}

func (s *searchState) clear() {
	s.regex = nil
	s.matches = nil
	s.idx = 0
}

func (s searchState) label() string {
	if s.regex == nil {
		return ""
	}
	if len(s.matches) == 0 {
		return "no matches"
	}
	return fmt.Sprintf("match %d/%d", s.idx+1, len(s.matches))
}

// handleSearchInput handles keyboard input while the search line is open.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := m.search.input.Value()
		m.search.active = false
		m.search.input.Blur()
		if query == "" {
			m.search.clear()
			return m, nil
		}
		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			m.errorMsg = "invalid pattern"
			return m, nil
		}
		m.errorMsg = ""
		m.search.regex = re
		m.search.idx = 0
		m.search.find(m.console.lines)
		m.scrollToMatch()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.search.active = false
		m.search.input.Blur()
		m.search.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	return m, cmd
}

func (m *Model) nextMatch(step int) {
	n := len(m.search.matches)
	if n == 0 {
		return
	}
	m.search.idx = (m.search.idx + step + n) % n
	m.scrollToMatch()
}

// scrollToMatch centers the current match in the console.
func (m *Model) scrollToMatch() {
	if len(m.search.matches) == 0 {
		return
	}
	target := m.search.matches[m.search.idx]
	m.console.viewport.SetYOffset(max(target-m.console.viewport.Height/2, 0))
}
