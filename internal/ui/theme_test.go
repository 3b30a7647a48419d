package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/toparvion/analogtail/internal/analog"
	"github.com/toparvion/analogtail/internal/notify"
)

func TestGetThemeFallsBackToNightfox(t *testing.T) {
	if got := GetTheme("Solarized").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(unknown) = %q, want Nightfox", got)
	}
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate) = %q, want Slate", got)
	}
}

func TestNextThemeCycles(t *testing.T) {
	names := ThemeNames()
	current := names[0]
	for i := 1; i <= len(names); i++ {
		current = NextTheme(current)
		want := names[i%len(names)]
		if current != want {
			t.Fatalf("NextTheme step %d = %q, want %q", i, current, want)
		}
	}
	if got := NextTheme("bogus"); got != names[0] {
		t.Fatalf("NextTheme(bogus) = %q, want %q", got, names[0])
	}
}

func TestThemePaletteCoversEverySeverity(t *testing.T) {
	severities := []analog.Style{
		analog.StyleTrace, analog.StyleDebug, analog.StyleInfo, analog.StyleWarn,
		analog.StyleError, analog.StyleFatal, analog.StylePlain,
	}
	for _, name := range ThemeNames() {
		p := GetTheme(name).Palette()
		for _, s := range severities {
			if _, ok := p.Levels[s]; !ok {
				t.Fatalf("%s palette misses %s", name, s)
			}
		}
		if len(p.Highlights) == 0 {
			t.Fatalf("%s palette has no highlight colors", name)
		}
	}
}

func TestBannerStyleUsesLevelColor(t *testing.T) {
	th := GetTheme("Nightfox")
	styles := th.Styles()

	if got := styles.BannerStyle(notify.LevelDanger).GetBackground(); got != lipgloss.Color(th.Danger) {
		t.Fatalf("danger background = %v, want %s", got, th.Danger)
	}
	if got := styles.BannerStyle(notify.Level("other")).GetBackground(); got != lipgloss.Color(th.Muted) {
		t.Fatalf("unknown level background = %v, want %s", got, th.Muted)
	}
}
