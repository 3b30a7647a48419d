// Package ui provides the Bubble Tea console of analogtail.
package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/toparvion/analogtail/internal/events"
	"github.com/toparvion/analogtail/internal/logtail"
	"github.com/toparvion/analogtail/internal/prefs"
	"github.com/toparvion/analogtail/internal/session"
	"github.com/toparvion/analogtail/internal/state"
)

// Mode is the overlay currently shown above the console.
type Mode int

const (
	ModeConsole Mode = iota
	ModeHelp
	ModePicker
	ModePrompt
	ModeDiagnostics
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Session   *session.Session
	Store     *state.Store
	Prefs     prefs.Prefs
	PrefsPath string
	// LogFile is analogtail's own log, shown by the diagnostics view.
	LogFile string
	Logger  *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	session   *session.Session
	store     *state.Store
	prefs     prefs.Prefs
	prefsPath string
	logFile   string
	logger    *slog.Logger
	keys      keyMap

	// UI state
	theme  Theme
	mode   Mode
	width  int
	height int
	ready  bool
	title  string

	console     console
	picker      picker
	prompt      prompt
	diagnostics diagnostics
	search      searchState
	spin        spinner.Model

	// Data state
	snapshot  state.Snapshot
	lastSlide time.Time
	errorMsg  string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(opts.Prefs.Theme)
	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		session:   opts.Session,
		store:     store,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		logFile:   opts.LogFile,
		logger:    logger.With("component", "ui"),
		keys:      DefaultKeyMap(),
		theme:     theme,
		spin:      spin,
		picker:    newPicker(),
		prompt:    newPrompt(),
		search:    newSearch(),
	}
	m.console = newConsole(theme.Palette(), m.layoutOptions())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.session.Period()),
		waitEventCmd(m.session),
		m.spin.Tick,
		tea.SetWindowTitle(windowTitle("")),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case eventMsg:
		return m.handleEvent(events.Event(msg))

	case sessionClosedMsg:
		return m, tea.Quit

	case diagnosticsMsg:
		m.diagnostics.load(msg.lines, msg.err)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	switch {
	case m.mode == ModePicker:
		return m.updatePicker(msg)
	case m.mode == ModePrompt:
		return m.updatePrompt(msg)
	case m.search.active:
		var cmd tea.Cmd
		m.search.input, cmd = m.search.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	case ModePicker:
		return m.renderPicker()
	case ModePrompt:
		return m.renderPrompt()
	case ModeDiagnostics:
		return m.renderDiagnostics()
	}
	return m.renderMain()
}

// Title is the terminal title currently set.
func (m Model) Title() string {
	return m.title
}

// Mode reports the active overlay.
func (m Model) Mode() Mode {
	return m.mode
}

// Prefs returns the preferences in effect.
func (m Model) Prefs() prefs.Prefs {
	return m.prefs
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeHelp:
		// Any key closes help
		m.mode = ModeConsole
		return m, nil
	case ModePicker:
		return m.updatePicker(msg)
	case ModePrompt:
		return m.updatePrompt(msg)
	case ModeDiagnostics:
		return m.handleDiagnosticsKey(msg)
	}
	if m.search.active {
		return m.handleSearchInput(msg)
	}

	ctrl := m.session.Controller()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.console.setPalette(m.theme.Palette())
		m.redraw()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleLive):
		m.errorMsg = ""
		if err := ctrl.SetLive(!ctrl.Live()); err != nil {
			m.errorMsg = liveError(err)
			m.logger.Warn("toggle streaming failed", "error", err)
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		ctrl.Clear()
		m.redraw()
		return m, nil

	case key.Matches(msg, m.keys.PickLog):
		m.picker.setChoices(ctrl.Choices(), m.session.Path())
		m.mode = ModePicker
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.EditPath):
		m.mode = ModePrompt
		return m, m.prompt.open(m.session.Path())

	case key.Matches(msg, m.keys.Dismiss):
		m.session.DismissBanner()
		return m, nil

	case key.Matches(msg, m.keys.Diagnostics):
		m.mode = ModeDiagnostics
		m.layout()
		return m, readDiagnosticsCmd(m.logFile)

	case key.Matches(msg, m.keys.ToggleWrap):
		m.prefs.Wrap = !m.prefs.Wrap
		m.applyLayoutOptions()
		return m, nil

	case key.Matches(msg, m.keys.ToggleSources):
		m.prefs.ShowSources = !m.prefs.ShowSources
		m.applyLayoutOptions()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.search.active = true
		m.search.input.SetValue("")
		return m, m.search.input.Focus()

	case key.Matches(msg, m.keys.NextMatch):
		m.nextMatch(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevMatch):
		m.nextMatch(-1)
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.search.clear()
		m.errorMsg = ""
		return m, nil
	}

	return m.handleScrollKey(msg)
}

// handleScrollKey moves the console viewport.
func (m Model) handleScrollKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	vp := &m.console.viewport
	switch {
	case key.Matches(msg, m.keys.Up):
		vp.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		vp.ScrollDown(1)
	case key.Matches(msg, m.keys.Top):
		vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()
	case key.Matches(msg, m.keys.PageUp):
		vp.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		vp.PageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		vp.HalfPageUp()
	case key.Matches(msg, m.keys.HalfPageDown):
		vp.HalfPageDown()
	}
	return m, nil
}

// handleTick runs one renderer step and schedules the next one.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	frame := m.session.Tick(&m.console)
	m.console.apply(m.session.Queue(), frame)
	if frame.Changed() && m.search.regex != nil {
		m.search.find(m.console.lines)
	}
	if frame.Slide {
		m.lastSlide = now
	}
	m.snapshot = m.store.Snapshot()
	return m, tickCmd(m.session.Period())
}

// handleEvent feeds one session event through the store and the session router.
func (m Model) handleEvent(e events.Event) (tea.Model, tea.Cmd) {
	m.store.Observe(e)
	m.session.Handle(e)
	m.snapshot = m.store.Snapshot()

	cmds := []tea.Cmd{waitEventCmd(m.session)}
	switch e.Kind {
	case events.ChoicesReady:
		if m.mode == ModePicker {
			m.picker.setChoices(m.session.Controller().Choices(), m.session.Path())
		}
	case events.ServerFailure, events.ServerDisconnected:
		m.errorMsg = ""
	}
	if cmd := m.syncTitle(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) syncTitle() tea.Cmd {
	name := ""
	if sel, ok := m.session.Controller().Selected(); ok {
		name = sel.Title
	}
	title := windowTitle(name)
	if title == m.title {
		return nil
	}
	m.title = title
	return tea.SetWindowTitle(title)
}

func (m *Model) layout() {
	if !m.ready {
		return
	}
	m.console.resize(m.width, max(m.height-chromeRows, 1))
	m.redraw()
	m.picker.resize(m.width, m.height)
	m.prompt.resize(m.width)
	m.diagnostics.resize(m.width, m.height)
}

// redraw lays the console out again from the queue.
func (m *Model) redraw() {
	m.console.refresh(m.session.Queue())
	if m.search.regex != nil {
		m.search.find(m.console.lines)
	}
}

func (m Model) layoutOptions() logtail.Options {
	return logtail.Options{
		Width:       m.width,
		Wrap:        m.prefs.Wrap,
		ShowSources: m.prefs.ShowSources,
	}
}

func (m *Model) applyLayoutOptions() {
	m.console.setOptions(m.layoutOptions())
	m.redraw()
	m.savePrefs()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save preferences failed", "error", err)
	}
}

// renderMain renders the console with its header and status lines.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBanner(time.Now()))
	b.WriteString("\n")
	b.WriteString(m.console.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar(time.Now()))
	return b.String()
}

func liveError(err error) string {
	if errors.Is(err, session.ErrNoSelection) {
		return "no log selected"
	}
	return "not connected, streaming starts once the server is back"
}

func windowTitle(name string) string {
	if name == "" {
		return "AnaLog"
	}
	return name + " - AnaLog"
}

// Messages

type tickMsg time.Time

type eventMsg events.Event

type sessionClosedMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitEventCmd blocks until the session publishes the next event.
func waitEventCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-s.Events():
			return eventMsg(e)
		case <-s.Done():
			return sessionClosedMsg{}
		}
	}
}

// Run starts the Bubble Tea program and returns when the user quits or ctx ends.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
