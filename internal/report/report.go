// Package report renders the standard set of figures and tables for a
// parameter set: delay comparison, deload toggle, adherence, microlesion
// against stagnation, and the two-parameter sensitivity heatmap.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/san-kum/adaptsim/internal/metrics"
	"github.com/san-kum/adaptsim/internal/scenario"
	"github.com/san-kum/adaptsim/internal/seir"
	"github.com/san-kum/adaptsim/internal/sweep"
)

type Options struct {
	Dir   string
	Sweep sweep.Spec

	// SkipSweep omits figure E, the only expensive part.
	SkipSweep bool
}

type Summary struct {
	Figures []string
	Tables  []string
	Metrics map[string]metrics.Record
	Grid    *sweep.Grid
}

var reportScenarios = []string{
	"baseline", "no-delay",
	"deload-on", "deload-off",
	"constant-high", "constant-low",
	"microlesion", "stagnation",
}

type generator struct {
	figs, tables string
	summary      *Summary
	logger       *slog.Logger
}

// Generate writes figs/ and tables/ under opts.Dir.
func Generate(ctx context.Context, opts Options, p seir.Params, b *scenario.Builder, logger *slog.Logger) (*Summary, error) {
	if b == nil {
		b = scenario.NewBuilder()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if !opts.SkipSweep {
		if err := opts.Sweep.Validate(p); err != nil {
			return nil, fmt.Errorf("sensitivity sweep: %w", err)
		}
	}

	g := &generator{
		figs:    filepath.Join(opts.Dir, "figs"),
		tables:  filepath.Join(opts.Dir, "tables"),
		summary: &Summary{Metrics: make(map[string]metrics.Record)},
		logger:  logger,
	}
	for _, dir := range []string{g.figs, g.tables} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	results, err := b.RunBatch(ctx, reportScenarios, &p, logger)
	if err != nil {
		return nil, err
	}
	runs := make(map[string]*seir.Output, len(results))
	for _, r := range results {
		runs[r.Name] = r.Output
		g.summary.Metrics[r.Name] = metrics.Compute(r.Output, p.M0)
	}

	steps := []func() error{
		func() error {
			return g.figure("A_R_delay_vs_no_delay.png", "R(t): delay vs no delay", "days", "fraction",
				line("R with delay", runs["baseline"], "R"),
				line("R without delay (SIR-like)", runs["no-delay"], "R"))
		},
		func() error {
			return g.table("B_deload_metrics.csv", func(w io.Writer) error {
				return WriteMetricsTable(w, []Row{
					{"deload-on", g.summary.Metrics["deload-on"]},
					{"deload-off", g.summary.Metrics["deload-off"]},
				})
			})
		},
		func() error {
			return g.figure("B_M_deload_on_off.png", "M(t): deload on/off", "days", "a.u.",
				line("with deload", runs["deload-on"], "M"),
				line("without deload", runs["deload-off"], "M"))
		},
		func() error {
			return g.table("C_adherence_metrics.csv", func(w io.Writer) error {
				return WriteMetricsTable(w, []Row{
					{"constant-high", g.summary.Metrics["constant-high"]},
					{"constant-low", g.summary.Metrics["constant-low"]},
				})
			})
		},
		func() error {
			return g.figure("C_M_adherence.png", "M(t): high vs low adherence", "days", "a.u.",
				line("high adherence", runs["constant-high"], "M"),
				line("low adherence", runs["constant-low"], "M"))
		},
		func() error {
			return g.figure("D_M_microlesion_stagnation.png", "M(t): microlesion vs stagnation", "days", "a.u.",
				line("microlesion (relapse up)", runs["microlesion"], "M"),
				line("stagnation (sensitivity down)", runs["stagnation"], "M"))
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	if opts.SkipSweep {
		return g.summary, nil
	}

	grid, err := sweep.New(b, logger).Run(ctx, p, opts.Sweep)
	if err != nil {
		return nil, fmt.Errorf("sensitivity sweep: %w", err)
	}
	g.summary.Grid = grid

	name := fmt.Sprintf("E_heatmap_%s_%s.png", grid.Param1, grid.Param2)
	if err := g.write(g.figs, name, &g.summary.Figures, func(w io.Writer) error {
		return Heatmap(w, grid, "Sensitivity of M(T)", "final M(T)")
	}); err != nil {
		return nil, err
	}
	if err := g.table("E_sweep_grid.csv", func(w io.Writer) error { return WriteGrid(w, grid) }); err != nil {
		return nil, err
	}
	return g.summary, nil
}

func line(name string, out *seir.Output, column string) Line {
	y, _ := out.Series(column)
	return Line{Name: name, X: out.T, Y: y}
}

func (g *generator) figure(name, title, xLabel, yLabel string, lines ...Line) error {
	return g.write(g.figs, name, &g.summary.Figures, func(w io.Writer) error {
		return LineChart(w, title, xLabel, yLabel, lines...)
	})
}

func (g *generator) table(name string, fn func(io.Writer) error) error {
	return g.write(g.tables, name, &g.summary.Tables, fn)
}

func (g *generator) write(dir, name string, into *[]string, fn func(io.Writer) error) error {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	*into = append(*into, path)
	g.logger.Info("wrote", "path", path)
	return nil
}
