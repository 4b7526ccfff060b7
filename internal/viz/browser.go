package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/adaptsim/internal/metrics"
	"github.com/san-kum/adaptsim/internal/scenario"
	"github.com/san-kum/adaptsim/internal/seir"
)

var browserColumns = []string{"S", "E", "I", "R", "M"}

type runDoneMsg struct {
	name string
	out  *seir.Output
	err  error
}

// Browser is a Bubble Tea model listing the registered scenarios and
// plotting the selected one. Runs are computed on demand and cached.
type Browser struct {
	scenarios []scenario.Scenario
	builder   *scenario.Builder
	params    seir.Params

	cursor, column, theme int
	outputs               map[string]*seir.Output
	errs                  map[string]error
	pending               map[string]bool
	width, height         int
}

func NewBrowser(b *scenario.Builder, p seir.Params) Browser {
	if b == nil {
		b = scenario.NewBuilder()
	}
	return Browser{
		scenarios: scenario.All(),
		builder:   b,
		params:    p,
		column:    len(browserColumns) - 1,
		outputs:   make(map[string]*seir.Output),
		errs:      make(map[string]error),
		pending:   make(map[string]bool),
		width:     100,
		height:    30,
	}
}

func (m Browser) Init() tea.Cmd { return m.runSelected() }

func (m Browser) selected() string { return m.scenarios[m.cursor].Name }

func (m Browser) runSelected() tea.Cmd {
	name := m.selected()
	if _, done := m.outputs[name]; done || m.pending[name] {
		return nil
	}
	m.pending[name] = true

	b, p := m.builder, m.params
	return func() tea.Msg {
		out, err := b.Run(context.Background(), name, &p)
		return runDoneMsg{name: name, out: out, err: err}
	}
}

func (m Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case runDoneMsg:
		delete(m.pending, msg.name)
		if msg.err != nil {
			m.errs[msg.name] = msg.err
		} else {
			m.outputs[msg.name] = msg.out
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.scenarios)-1 {
				m.cursor++
			}
		case "enter", " ":
			return m, m.runSelected()
		case "tab":
			m.column = (m.column + 1) % len(browserColumns)
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		}
	}
	return m, nil
}

func (m Browser) View() string {
	th := Themes[m.theme]
	var b strings.Builder

	b.WriteString("\n  " + th.fg(th.Primary).Bold(true).Render("ADAPTSIM") + "  " +
		th.fg(th.Muted).Render("muscular adaptation scenarios") + "\n\n")

	for i, s := range m.scenarios {
		marker := "  "
		nameStyle := th.fg(th.Muted)
		if i == m.cursor {
			marker = th.fg(th.Primary).Bold(true).Render("▸ ")
			nameStyle = th.fg(th.Text).Bold(true)
		}
		status := ""
		switch {
		case m.pending[s.Name]:
			status = th.fg(th.Accent).Render(" …")
		case m.errs[s.Name] != nil:
			status = th.fg(th.Error).Render(" ✗")
		case m.outputs[s.Name] != nil:
			status = th.fg(th.Accent).Render(" ●")
		}
		b.WriteString(fmt.Sprintf("  %s%s%s  %s\n", marker, nameStyle.Render(fmt.Sprintf("%-18s", s.Name)), status,
			th.fg(th.Muted).Render(s.Description)))
	}
	b.WriteString("\n")

	name := m.selected()
	switch {
	case m.errs[name] != nil:
		b.WriteString("  " + th.fg(th.Error).Render(m.errs[name].Error()) + "\n")
	case m.outputs[name] != nil:
		b.WriteString(m.viewRun(name, m.outputs[name]))
	default:
		b.WriteString("  " + KeyHint.Render("press enter to simulate") + "\n")
	}

	b.WriteString("\n  " + KeyHint.Render("j/k select  enter run  tab column  t theme  q quit") + "\n")
	return b.String()
}

func (m Browser) viewRun(name string, out *seir.Output) string {
	col := browserColumns[m.column]
	data, err := out.Series(col)
	if err != nil {
		return "  " + err.Error() + "\n"
	}

	width := m.width - 16
	if width < 20 {
		width = 20
	}
	height := m.height / 3
	if height < 6 {
		height = 6
	}

	var b strings.Builder
	b.WriteString(Plot(data, fmt.Sprintf("%s(t), %s", col, name), width, height))
	b.WriteString("\n\n")
	for _, c := range browserColumns {
		if series, err := out.Series(c); err == nil {
			b.WriteString(fmt.Sprintf("  %s %s\n", MetricLabel.Render(fmt.Sprintf("%-2s", c)), Sparkline(series, width/2)))
		}
	}
	b.WriteString("  " + Separator(width/2) + "\n\n")
	b.WriteString(Panel.Render(MetricsTable([]MetricRow{{Label: name, Record: metrics.Compute(out, out.Params.M0)}})))
	b.WriteString("\n")
	return b.String()
}

// RunBrowser starts the browser on the alternate screen with the named
// theme.
func RunBrowser(b *scenario.Builder, p seir.Params, theme string) error {
	m := NewBrowser(b, p)
	m.theme = themeIndex(theme)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
