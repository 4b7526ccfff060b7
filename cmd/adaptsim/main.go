package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/adaptsim/internal/config"
	"github.com/san-kum/adaptsim/internal/logging"
	"github.com/san-kum/adaptsim/internal/metrics"
	"github.com/san-kum/adaptsim/internal/report"
	"github.com/san-kum/adaptsim/internal/scenario"
	"github.com/san-kum/adaptsim/internal/storage"
	"github.com/san-kum/adaptsim/internal/sweep"
	"github.com/san-kum/adaptsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	preset     string
	overrides  []string

	// run
	showPlot bool
	noSave   bool

	// sweep
	param1  string
	param2  string
	values1 string
	values2 string
	workers int
	pngPath string

	// sweeps
	showSweep int64

	// plot
	columns []string

	// export
	outFile string

	// report
	reportDir string
	skipSweep bool

	// browse
	theme string

	plotWidth  int
	plotHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "adaptsim",
		Short:         "muscular adaptation simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&configFile, "config", "", "YAML config file")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")
	pf.StringVar(&preset, "preset", "", "parameter preset (see presets)")
	pf.StringArrayVar(&overrides, "set", nil, "override a parameter, e.g. --set beta=0.6")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot M(t) after the run")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	addPlotFlags(runCmd)

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list scenarios",
		RunE:  listScenarios,
	}

	metricsCmd := &cobra.Command{
		Use:   "metrics [scenario...]",
		Short: "compare metrics across scenarios",
		RunE:  compareMetrics,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "two-parameter sensitivity sweep of final M",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&param1, "param1", "", "first swept parameter (default from config)")
	sweepCmd.Flags().StringVar(&param2, "param2", "", "second swept parameter (default from config)")
	sweepCmd.Flags().StringVar(&values1, "values1", "", "lo:hi:n or comma list")
	sweepCmd.Flags().StringVar(&values2, "values2", "", "lo:hi:n or comma list")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel cells (0 = all CPUs)")
	sweepCmd.Flags().StringVar(&pngPath, "png", "", "write a heatmap PNG")

	sweepsCmd := &cobra.Command{
		Use:   "sweeps",
		Short: "list stored sweeps",
		RunE:  listSweeps,
	}
	sweepsCmd.Flags().Int64Var(&showSweep, "show", 0, "print the grid of one sweep")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&columns, "column", []string{"M"}, "columns to plot (t,S,E1..Ek,I,R,M)")
	addPlotFlags(plotCmd)

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list parameter presets",
		RunE:  listPresets,
	}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "write figures and tables",
		RunE:  runReport,
	}
	reportCmd.Flags().StringVar(&reportDir, "out", "", "output directory (default <data>/report)")
	reportCmd.Flags().BoolVar(&skipSweep, "skip-sweep", false, "skip the sensitivity heatmap")

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "interactive scenario browser",
		RunE:  browse,
	}
	browseCmd.Flags().StringVar(&theme, "theme", "ocean", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective configuration as YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}

	rootCmd.AddCommand(runCmd, scenariosCmd, metricsCmd, sweepCmd, sweepsCmd, listCmd,
		plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd, reportCmd, browseCmd, initCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addPlotFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&plotWidth, "width", 70, "plot width")
	cmd.Flags().IntVar(&plotHeight, "height", 15, "plot height")
}

// loadConfig resolves config file, preset, then explicit flags, in that
// order. Flags only win when set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("preset") {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, nil, err
		}
	}
	if flags.Changed("data") || cfg.Output.Dir == "" {
		cfg.Output.Dir = dataDir
	}
	if flags.Changed("log-level") || cfg.Output.LogLevel == "" {
		cfg.Output.LogLevel = logLevel
	}

	for _, kv := range overrides {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, nil, fmt.Errorf("--set %q: expected name=value", kv)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("--set %q: %w", kv, err)
		}
		p, err := cfg.Params.With(strings.TrimSpace(name), v)
		if err != nil {
			return nil, nil, err
		}
		cfg.Params = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := logging.New(cfg.Output.LogLevel, os.Stderr, false)
	logger.Debug("config loaded", "preset", cfg.Preset, "data", cfg.Output.Dir)
	return cfg, logger, nil
}

func runStore(cfg *config.Config) *storage.Store {
	return storage.New(filepath.Join(cfg.Output.Dir, "runs"))
}

func openCatalog(ctx context.Context, cfg *config.Config) (*storage.Catalog, error) {
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return nil, err
	}
	cat := storage.NewCatalog(filepath.Join(cfg.Output.Dir, "sweeps.db"))
	if err := cat.Init(ctx); err != nil {
		return nil, err
	}
	return cat, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	name := "baseline"
	if len(args) == 1 {
		name = args[0]
	}

	start := time.Now()
	out, err := cfg.Builder().Run(cmd.Context(), name, &cfg.Params)
	if err != nil {
		return err
	}
	logger.Info("simulated", "scenario", name, "steps", out.Len(), "elapsed", time.Since(start))
	if i := out.FirstNonFinite(); i >= 0 {
		logger.Warn("state left the finite range", "step", i, "t", out.T[i])
	}

	rec := metrics.Compute(out, cfg.Params.M0)
	fmt.Println(viz.Title.Render(name))
	fmt.Print(viz.MetricsTable([]viz.MetricRow{{Label: name, Record: rec}}))
	fmt.Printf("%s %s\n", viz.MetricLabel.Render("M"), viz.Sparkline(out.M, 60))

	if !noSave {
		runID, err := runStore(cfg).Save(name, out)
		if err != nil {
			return err
		}
		fmt.Printf("saved: %s\n", runID)
	}

	if showPlot {
		fmt.Println()
		fmt.Println(viz.Plot(out.M, fmt.Sprintf("M(t), %s", name), plotWidth, plotHeight))
	}
	return nil
}

func listScenarios(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION")
	for _, s := range scenario.All() {
		fmt.Fprintf(w, "%s\t%s\n", s.Name, s.Description)
	}
	return w.Flush()
}

func compareMetrics(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = scenario.Names()
	}

	results, err := cfg.Builder().RunBatch(cmd.Context(), names, &cfg.Params, logger)
	if err != nil {
		return err
	}

	rows := make([]viz.MetricRow, len(results))
	for i, r := range results {
		rows[i] = viz.MetricRow{Label: r.Name, Record: metrics.Compute(r.Output, cfg.Params.M0)}
	}
	fmt.Print(viz.MetricsTable(rows))
	return nil
}

func sweepSpec(cmd *cobra.Command, cfg *config.Config) (sweep.Spec, error) {
	spec := cfg.Sweep
	flags := cmd.Flags()
	if flags.Changed("param1") {
		spec.Param1 = param1
	}
	if flags.Changed("param2") {
		spec.Param2 = param2
	}
	if flags.Changed("values1") {
		v, err := sweep.ParseAxis(values1)
		if err != nil {
			return spec, fmt.Errorf("--values1: %w", err)
		}
		spec.Values1 = v
	}
	if flags.Changed("values2") {
		v, err := sweep.ParseAxis(values2)
		if err != nil {
			return spec, fmt.Errorf("--values2: %w", err)
		}
		spec.Values2 = v
	}
	if flags.Changed("workers") {
		spec.Workers = workers
	}
	return spec, spec.Validate(cfg.Params)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	spec, err := sweepSpec(cmd, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	start := time.Now()
	grid, err := sweep.New(cfg.Builder(), logger).Run(ctx, cfg.Params, spec)
	if err != nil {
		return err
	}
	rows, cols := grid.Dims()
	logger.Info("sweep done", "cells", rows*cols, "elapsed", time.Since(start))

	cat, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer cat.Close()

	id, err := cat.SaveSweep(ctx, cfg.Params, grid)
	if err != nil {
		return err
	}

	lo, hi := grid.Range()
	fmt.Printf("sweep %d: %s x %s, %dx%d cells, final M in [%.4f, %.4f]\n",
		id, grid.Param1, grid.Param2, rows, cols, lo, hi)

	if pngPath != "" {
		if err := writeFile(pngPath, func(w io.Writer) error {
			return report.Heatmap(w, grid, "Sensitivity of M(T)", "final M(T)")
		}); err != nil {
			return err
		}
		fmt.Printf("heatmap: %s\n", pngPath)
	}
	return nil
}

func listSweeps(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	cat, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer cat.Close()

	if cmd.Flags().Changed("show") {
		grid, rec, err := cat.LoadSweep(ctx, showSweep)
		if err != nil {
			return err
		}
		fmt.Printf("sweep %d (%s)\n", rec.ID, rec.CreatedAt.Format("2006-01-02 15:04:05"))
		return report.WriteGrid(os.Stdout, grid)
	}

	records, err := cat.ListSweeps(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no sweeps")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tPARAMS\tGRID\tMIN M\tMAX M")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s x %s\t%dx%d\t%.4f\t%.4f\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Param1, r.Param2,
			r.Rows, r.Cols, r.MinFinalM, r.MaxFinalM)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	runs, err := runStore(cfg).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tROWS\tPEAK M\tDELTA M")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%.4f\n",
			r.ID, r.Scenario, r.Timestamp.Format("2006-01-02 15:04"), r.Rows,
			r.Metrics["peak_M"], r.Metrics["deltaM_final"])
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	runID := args[0]
	st := runStore(cfg)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	data := make([][]float64, 0, len(columns))
	for _, c := range columns {
		col, err := series.Column(c)
		if err != nil {
			return err
		}
		data = append(data, col)
	}

	caption := fmt.Sprintf("%s (%s)", runID, meta.Scenario)
	if len(data) == 1 {
		fmt.Println(viz.Plot(data[0], fmt.Sprintf("%s(t), %s", columns[0], caption), plotWidth, plotHeight))
		return nil
	}
	fmt.Println(viz.PlotMany(data, columns, caption, plotWidth, plotHeight))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := runStore(cfg)
	return writeOutput(func(w io.Writer) error { return st.ExportCSV(w, args[0]) })
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := runStore(cfg)
	return writeOutput(func(w io.Writer) error { return st.ExportJSON(w, args[0]) })
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBETA\tALPHA\tGAMMA\tPHI\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		pr := config.Presets[name]
		p := pr.Params
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n", name, p.Beta, p.Alpha, p.Gamma, p.Phi, pr.Description)
	}
	return w.Flush()
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := reportDir
	if dir == "" {
		dir = filepath.Join(cfg.Output.Dir, "report")
	}

	opts := report.Options{Dir: dir, Sweep: cfg.Sweep, SkipSweep: skipSweep}
	summary, err := report.Generate(cmd.Context(), opts, cfg.Params, cfg.Builder(), logger)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render("report"))
	fmt.Println(viz.Separator(40))
	for _, path := range append(summary.Figures, summary.Tables...) {
		fmt.Println("  " + path)
	}
	return nil
}

func browse(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return viz.RunBrowser(cfg.Builder(), cfg.Params, theme)
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func writeOutput(fn func(io.Writer) error) error {
	if outFile == "" {
		return fn(os.Stdout)
	}
	return writeFile(outFile, fn)
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
