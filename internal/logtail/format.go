package logtail

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/toparvion/analogtail/internal/analog"
)

const tabWidth = 4

// Palette styles every part of a rendered record.
type Palette struct {
	Levels map[analog.Style]lipgloss.Style
	XML    lipgloss.Style
	Source lipgloss.Style
	// Highlights maps a composite member's highlight color name onto its marker color.
	Highlights map[string]lipgloss.Color
}

// DefaultPalette suits dark terminals and is used by the headless tail mode.
func DefaultPalette() Palette {
	return Palette{
		Levels: map[analog.Style]lipgloss.Style{
			analog.StyleTrace: lipgloss.NewStyle().Foreground(lipgloss.Color("#6c6c6c")),
			analog.StyleDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("#87ceeb")),
			analog.StyleInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd75f")),
			analog.StyleWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd700")),
			analog.StyleError: lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b")).Bold(true),
			analog.StyleFatal: lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#c0392b")).Bold(true),
			analog.StylePlain: lipgloss.NewStyle(),
		},
		XML:        lipgloss.NewStyle().Foreground(lipgloss.Color("#d7afff")),
		Source:     lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
		Highlights: DefaultHighlights(),
	}
}

// DefaultHighlights are the marker colors of composite members.
func DefaultHighlights() map[string]lipgloss.Color {
	return map[string]lipgloss.Color{
		"blue":   lipgloss.Color("#5f87ff"),
		"green":  lipgloss.Color("#5faf5f"),
		"orange": lipgloss.Color("#ff8700"),
		"brown":  lipgloss.Color("#af875f"),
		"violet": lipgloss.Color("#af5fff"),
		"rose":   lipgloss.Color("#ff5f87"),
	}
}

// Options control the layout of formatted lines.
type Options struct {
	// Width limits each output line; zero or less means unlimited.
	Width int
	// Wrap folds long lines instead of truncating them.
	Wrap bool
	// ShowSources prints the node and file of composite records.
	ShowSources bool
}

// FormatBatch renders one batch as display lines.
func FormatBatch(b analog.Batch, p Palette, opts Options) []string {
	var prefix string
	if b.Composite() {
		marker := lipgloss.NewStyle().Foreground(p.highlight(b.HighlightColor)).Render("▌")
		prefix = marker + " "
		if opts.ShowSources {
			prefix += p.Source.Render(SourceLabel(b)) + " "
		}
	}
	prefixWidth := lipgloss.Width(prefix)
	indent := strings.Repeat(" ", prefixWidth)

	width := 0
	if opts.Width > 0 {
		width = max(opts.Width-prefixWidth, 8)
	}

	out := make([]string, 0, len(b.Lines))
	for i, line := range b.Lines {
		lead := indent
		if i == 0 {
			lead = prefix
		}
		for j, part := range layoutText(line, width, opts.Wrap) {
			style := p.lineStyle(line.Style)
			if line.Style == analog.StyleXML {
				part = "│ " + part
			}
			if j > 0 {
				lead = indent
			}
			out = append(out, lead+style.Render(part))
		}
	}
	return out
}

// SourceLabel is the "[node] file" tag of a composite record.
func SourceLabel(b analog.Batch) string {
	node := b.SourceNode
	if node == "" {
		node = "?"
	}
	return "[" + node + "] " + analog.FileName(b.SourcePath)
}

// Plain renders a batch without any styling, one string per line.
func Plain(b analog.Batch) []string {
	out := make([]string, 0, len(b.Lines))
	for _, line := range b.Lines {
		out = append(out, expandTabs(line.Text))
	}
	return out
}

func layoutText(line analog.LogLine, width int, wrapLines bool) []string {
	text := expandTabs(strings.TrimRight(line.Text, "\r\n"))
	if line.Style == analog.StyleXML && width > 2 {
		width -= 2
	}
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, "\r")
		switch {
		case width <= 0:
			out = append(out, raw)
		case wrapLines:
			folded := wrap.String(wordwrap.String(raw, width), width)
			out = append(out, strings.Split(folded, "\n")...)
		default:
			out = append(out, truncate.StringWithTail(raw, uint(width), "…"))
		}
	}
	return out
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func (p Palette) lineStyle(style analog.Style) lipgloss.Style {
	if style == analog.StyleXML {
		return p.XML
	}
	if s, ok := p.Levels[style.Normalize()]; ok {
		return s
	}
	return p.Levels[analog.StylePlain]
}

func (p Palette) highlight(name string) lipgloss.Color {
	if c, ok := p.Highlights[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return lipgloss.Color("#808080")
}
