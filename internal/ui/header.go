package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/toparvion/analogtail/internal/analog"
	"github.com/toparvion/analogtail/internal/transport"
)

// renderHeader renders the top bar: connection, streaming state and the watched log.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{
		bg.Render("analogtail", styles.Logo),
		m.renderConnection(styles, bg),
		m.renderLive(styles, bg),
	}

	ctrl := m.session.Controller()
	if sel, ok := ctrl.Selected(); ok {
		parts = append(parts, bg.Render(truncate(sel.Title, 40), styles.Text))
		if !compact {
			parts = append(parts, bg.Render(analog.NodeLabel(sel), styles.MutedText))
		}
	} else {
		parts = append(parts, bg.Render("no log selected", styles.FaintText))
	}

	parts = append(parts,
		bg.Render("Records:", styles.MutedText)+bg.Spaces(1)+
			bg.Render(fmt.Sprintf("%d", m.session.Queue().Len()), styles.Text),
	)
	if !compact && m.snapshot.Outages > 0 {
		parts = append(parts,
			bg.Render("Outages:", styles.MutedText)+bg.Spaces(1)+
				bg.Render(fmt.Sprintf("%d", m.snapshot.Outages), styles.WarningText),
		)
	}

	return styles.Header.Width(m.width).MaxWidth(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) renderConnection(styles Styles, bg BgStyle) string {
	switch m.session.Status() {
	case transport.StatusConnected:
		return bg.Render("● ONLINE", styles.SuccessText)
	case transport.StatusConnecting:
		if m.snapshot.IsOffline() {
			return bg.Render("● OFFLINE", styles.DangerText) + bg.Spaces(1) +
				bg.Render("retrying", styles.WarningText)
		}
		return bg.Render(m.spin.View(), styles.WarningText) + bg.Spaces(1) +
			bg.Render("Connecting...", styles.WarningText.Bold(true))
	default:
		return bg.Render("● IDLE", styles.MutedText)
	}
}

func (m Model) renderLive(styles Styles, bg BgStyle) string {
	ctrl := m.session.Controller()
	switch {
	case ctrl.Live():
		return bg.Render("LIVE", styles.SuccessText)
	case ctrl.Launching():
		return bg.Render("STARTING", styles.InfoText)
	default:
		return bg.Render("PAUSED", styles.WarningText)
	}
}

// renderBanner shows the current notification, or the watched path when there is none.
func (m Model) renderBanner(now time.Time) string {
	styles := m.theme.Styles()
	if n, ok := m.session.Banner(now); ok {
		badge := styles.BannerStyle(n.Level).Render(n.Title)
		room := max(m.width-lipgloss.Width(badge)-1, 0)
		return badge + " " + styles.Text.Render(truncate(n.Text, room))
	}

	line := styles.MutedText.Render("Path: ") + styles.Text.Render(orDash(m.session.Path()))
	if topic := m.session.Topic(); topic != "" && m.width >= LayoutCompactWidth {
		line += styles.MutedText.Render("  Topic: ") + styles.FaintText.Render(topic)
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

// renderStatusBar renders the bottom line with scroll position, layout flags and hints.
func (m Model) renderStatusBar(now time.Time) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.search.active {
		return bg.FillLine(m.search.input.View(), m.width)
	}

	parts := []string{
		bg.Render(fmt.Sprintf("%3.0f%%", m.console.viewport.ScrollPercent()*100), styles.MutedText),
		bg.Render("wrap "+onOff(m.prefs.Wrap), styles.FaintText),
		bg.Render("sources "+onOff(m.prefs.ShowSources), styles.FaintText),
	}
	if pending := m.session.Queue().Pending(); pending > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d pending", pending), styles.InfoText))
	}
	if !m.lastSlide.IsZero() && now.Sub(m.lastSlide) < slideHold {
		parts = append(parts, bg.Render("▼ new records", styles.AccentText))
	}
	if label := m.search.label(); label != "" {
		parts = append(parts, bg.Render(label, styles.AccentText))
	}
	if !m.console.AtBottom() {
		parts = append(parts, bg.Render("G to follow", styles.WarningText))
	}
	if m.errorMsg != "" {
		parts = append(parts, bg.Render("! "+m.errorMsg, styles.WarningText.Bold(true)))
	}
	parts = append(parts, bg.Render(m.shortHelp(), styles.FaintText))

	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) shortHelp() string {
	out := ""
	for i, b := range m.keys.ShortHelp() {
		if i > 0 {
			out += " · "
		}
		h := b.Help()
		out += h.Key + " " + h.Desc
	}
	return out
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate shortens s to n cells with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > n-1 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
