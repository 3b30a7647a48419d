package logtail

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"

	"github.com/toparvion/analogtail/internal/analog"
)

// plainPalette renders without escape codes so assertions can compare text.
func plainPalette() Palette {
	p := DefaultPalette()
	for k := range p.Levels {
		p.Levels[k] = lipgloss.NewStyle()
	}
	p.XML = lipgloss.NewStyle()
	p.Source = lipgloss.NewStyle()
	return p
}

func stripped(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = stripANSI(l)
	}
	return out
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == ansi.Marker:
			inEsc = true
		case inEsc:
			if ansi.IsTerminator(r) {
				inEsc = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestFormatBatch_Plain(t *testing.T) {
	b := analog.Batch{Lines: []analog.LogLine{
		{Style: analog.StyleInfo, Text: "started"},
		{Style: analog.StylePlain, Text: "\tat Foo.bar(Foo.java:10)"},
	}}
	got := stripped(FormatBatch(b, plainPalette(), Options{}))
	want := []string{"started", "    at Foo.bar(Foo.java:10)"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("FormatBatch = %q, want %q", got, want)
	}
}

func TestFormatBatch_CompositeSource(t *testing.T) {
	ts := int64(1)
	b := analog.Batch{
		Timestamp:      &ts,
		SourceNode:     "app1",
		SourcePath:     "/var/log/app.log",
		HighlightColor: "green",
		Lines: []analog.LogLine{
			{Style: analog.StyleWarn, Text: "first"},
			{Style: analog.StyleWarn, Text: "second"},
		},
	}
	got := stripped(FormatBatch(b, plainPalette(), Options{ShowSources: true}))
	if got[0] != "▌ [app1] app.log first" {
		t.Fatalf("first line = %q", got[0])
	}
	if got[1] != strings.Repeat(" ", lipgloss.Width("▌ [app1] app.log "))+"second" {
		t.Fatalf("second line = %q", got[1])
	}

	got = stripped(FormatBatch(b, plainPalette(), Options{}))
	if got[0] != "▌ first" {
		t.Fatalf("without sources = %q", got[0])
	}
}

func TestFormatBatch_WrapAndTruncate(t *testing.T) {
	b := analog.Batch{Lines: []analog.LogLine{{Style: analog.StyleInfo, Text: "alpha beta gamma delta"}}}

	wrapped := stripped(FormatBatch(b, plainPalette(), Options{Width: 11, Wrap: true}))
	if len(wrapped) < 2 {
		t.Fatalf("wrapped = %q, want several lines", wrapped)
	}
	for _, l := range wrapped {
		if lipgloss.Width(l) > 11 {
			t.Fatalf("wrapped line %q wider than 11", l)
		}
	}

	cut := stripped(FormatBatch(b, plainPalette(), Options{Width: 11}))
	if len(cut) != 1 || !strings.HasSuffix(cut[0], "…") {
		t.Fatalf("truncated = %q, want one line ending with an ellipsis", cut)
	}
}

func TestFormatBatch_XMLBlock(t *testing.T) {
	b := analog.Batch{Lines: []analog.LogLine{{Style: analog.StyleXML, Text: "<a>\n  <b/>\n</a>"}}}
	got := stripped(FormatBatch(b, plainPalette(), Options{}))
	want := []string{"│ <a>", "│   <b/>", "│ </a>"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("FormatBatch = %q, want %q", got, want)
	}
}

func TestSourceLabel(t *testing.T) {
	if got := SourceLabel(analog.Batch{SourcePath: `C:\logs\svc.log`}); got != "[?] svc.log" {
		t.Fatalf("SourceLabel = %q, want [?] svc.log", got)
	}
}
