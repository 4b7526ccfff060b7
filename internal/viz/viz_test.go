package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/adaptsim/internal/metrics"
	"github.com/san-kum/adaptsim/internal/seir"
)

func shortParams() seir.Params {
	p := seir.DefaultParams()
	p.TMax = 10
	return p
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPlot(t *testing.T) {
	if got := Plot(nil, "empty", 40, 5); got != "" {
		t.Errorf("expected empty plot, got %q", got)
	}
	got := Plot([]float64{0, 1, 2, 1, 0}, "R(t)", 40, 5)
	if !strings.Contains(got, "R(t)") {
		t.Errorf("expected caption in plot, got %q", got)
	}

	many := PlotMany([][]float64{{0, 1, 2}, {2, 1, 0}}, []string{"on", "off"}, "M(t)", 40, 5)
	if !strings.Contains(many, "on") || !strings.Contains(many, "off") {
		t.Errorf("expected legends in plot, got %q", many)
	}
}

func TestMetricsTable(t *testing.T) {
	out := MetricsTable([]MetricRow{
		{Label: "baseline", Record: metrics.Record{PeakR: 0.5}},
		{Label: "no-delay", Record: metrics.Record{PeakR: 0.7}},
	})
	for _, want := range []string{"scenario", metrics.KeyPeakR, "baseline", "no-delay", "0.7000"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in table, got %q", want, out)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 5); got != "─────" {
		t.Errorf("expected flat line, got %q", got)
	}
	got := Sparkline([]float64{0, 1, 2, 3}, 4)
	if !strings.Contains(got, "▁") || !strings.Contains(got, "█") {
		t.Errorf("expected low and high bars, got %q", got)
	}
}

func TestGetTheme(t *testing.T) {
	if GetTheme("retro").Name != "retro" {
		t.Error("expected retro theme")
	}
	if GetTheme("nope").Name != ThemeOcean.Name {
		t.Error("expected fallback to ocean")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Errorf("expected %d names, got %d", len(Themes), len(ThemeNames()))
	}
	if themeIndex("minimal") != 2 || themeIndex("nope") != 0 {
		t.Errorf("unexpected theme index: minimal=%d nope=%d", themeIndex("minimal"), themeIndex("nope"))
	}
}

func TestBrowserRunsSelected(t *testing.T) {
	b := NewBrowser(nil, shortParams())

	cmd := b.Init()
	if cmd == nil {
		t.Fatal("expected init to start the first scenario")
	}
	if b.Init() != nil {
		t.Error("expected no duplicate run while pending")
	}

	model, _ := b.Update(cmd())
	b = model.(Browser)
	if b.outputs["baseline"] == nil {
		t.Fatal("expected baseline output after run")
	}
	if !strings.Contains(b.View(), "M(t), baseline") {
		t.Errorf("expected M plot for baseline, got %q", b.View())
	}

	model, _ = b.Update(key("tab"))
	b = model.(Browser)
	if !strings.Contains(b.View(), "S(t), baseline") {
		t.Error("expected tab to cycle to S")
	}

	model, _ = b.Update(key("j"))
	b = model.(Browser)
	if b.selected() != "no-delay" {
		t.Errorf("expected no-delay selected, got %s", b.selected())
	}
	if !strings.Contains(b.View(), "press enter") {
		t.Error("expected prompt for an unrun scenario")
	}

	_, cmd = b.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected enter to start a run")
	}
	msg := cmd().(runDoneMsg)
	if msg.name != "no-delay" || msg.err != nil {
		t.Errorf("expected no-delay run, got %s (%v)", msg.name, msg.err)
	}
}

func TestBrowserKeys(t *testing.T) {
	b := NewBrowser(nil, shortParams())

	model, _ := b.Update(key("k"))
	if model.(Browser).cursor != 0 {
		t.Error("expected cursor to stay at top")
	}

	model, _ = b.Update(key("t"))
	if model.(Browser).theme != 1 {
		t.Error("expected theme to cycle")
	}

	if _, cmd := b.Update(key("q")); cmd == nil {
		t.Error("expected quit command")
	}
}
