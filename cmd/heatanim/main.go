package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatanim/internal/config"
	"github.com/san-kum/heatanim/internal/encode"
	"github.com/san-kum/heatanim/internal/export"
	"github.com/san-kum/heatanim/internal/heat"
	"github.com/san-kum/heatanim/internal/metrics"
	"github.com/san-kum/heatanim/internal/pipeline"
	"github.com/san-kum/heatanim/internal/render"
	"github.com/san-kum/heatanim/internal/solver"
	"github.com/san-kum/heatanim/internal/storage"
	"github.com/san-kum/heatanim/internal/sweep"
	"github.com/san-kum/heatanim/internal/viz"
)

var (
	configFile string
	preset     string
	resultsDir string
	imagesDir  string
	solverPath string
	themeName  string
	verbose    bool
	noColor    bool

	// Solver parameters
	alpha    float64
	dt       float64
	duration float64
	cells    int
	length   float64
	alphas   []float64

	// Animation
	output        string
	intervalMS    int
	ymin          float64
	ymax          float64
	width         int
	height        int
	allowMismatch bool
	preview       bool

	// Stored run inspection
	frameIndex int

	force bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, viz.StatusError.Render("error:"), err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "heatanim",
		Short:         "run the 1D heat solver and animate its output",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
			setupLogging(cmd.ErrOrStderr())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&resultsDir, "results", config.DefaultResultsDir, "results directory")
	pf.StringVar(&imagesDir, "imgs", config.DefaultImagesDir, "animation directory")
	pf.StringVar(&solverPath, "solver", config.DefaultSolver, "solver executable")
	pf.StringVar(&themeName, "theme", config.DefaultTheme, "plot theme")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging and solver output")
	pf.BoolVar(&noColor, "no-color", false, "plain terminal output")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one simulation and animate it",
		Args:  cobra.NoArgs,
		RunE:  runHeat,
	}
	runCmd.Flags().Float64Var(&alpha, "alpha", config.DefaultAlpha, "thermal diffusivity")
	addParamFlags(runCmd)
	addAnimationFlags(runCmd)
	runCmd.Flags().StringVar(&output, "output", "", "animation file name inside the images directory")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	sweepCmd := &cobra.Command{
		Use:   "sweep [alpha...]",
		Short: "run one simulation per alpha and animate them together",
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64SliceVar(&alphas, "alphas", config.DefaultAlphas, "thermal diffusivities to compare")
	addParamFlags(sweepCmd)
	addAnimationFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&output, "output", "", "animation path")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	sweepCmd.Flags().BoolVar(&allowMismatch, "allow-mismatch", false, "animate runs with differing timesteps")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run parameters and peak temperature",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot one frame of a run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&frameIndex, "frame", -1, "frame index, negative counts from the end")

	animateCmd := &cobra.Command{
		Use:   "animate [run_id]",
		Short: "animate a stored run without re-running the solver",
		Args:  cobra.ExactArgs(1),
		RunE:  animateRun,
	}
	addAnimationFlags(animateCmd)
	animateCmd.Flags().StringVar(&output, "output", "", "animation file name inside the images directory")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "write one frame of a run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotRun,
	}
	snapshotCmd.Flags().IntVar(&frameIndex, "frame", -1, "frame index, negative counts from the end")
	snapshotCmd.Flags().IntVar(&width, "width", viz.DefaultWidth, "image width")
	snapshotCmd.Flags().IntVar(&height, "height", viz.DefaultHeight, "image height")
	snapshotCmd.Flags().StringVar(&output, "output", "", "svg path (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets and themes",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "write or check config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().Float64Var(&alpha, "alpha", config.DefaultAlpha, "thermal diffusivity")
	addParamFlags(configInitCmd)
	configInitCmd.Flags().StringVar(&preset, "preset", "", "start from a run preset")
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCheckCmd := &cobra.Command{
		Use:   "check [path]",
		Short: "validate a config file",
		Args:  cobra.ExactArgs(1),
		RunE:  checkConfig,
	}
	configCmd.AddCommand(configInitCmd, configCheckCmd)

	rootCmd.AddCommand(runCmd, sweepCmd, listCmd, showCmd, plotCmd, animateCmd, snapshotCmd, exportCSVCmd, exportJSONCmd, presetsCmd, configCmd)
	return rootCmd
}

func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultTime, "total simulated time")
	cmd.Flags().IntVar(&cells, "cells", config.DefaultCells, "number of interior cells")
	cmd.Flags().Float64Var(&length, "length", heat.DefaultLength, "domain length")
}

func addAnimationFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&intervalMS, "interval", config.DefaultIntervalMS, "milliseconds per frame")
	cmd.Flags().Float64Var(&ymin, "ymin", 0, "fixed lower temperature bound")
	cmd.Flags().Float64Var(&ymax, "ymax", 0, "fixed upper temperature bound")
	cmd.Flags().IntVar(&width, "width", viz.DefaultWidth, "frame width")
	cmd.Flags().IntVar(&height, "height", viz.DefaultHeight, "frame height")
	cmd.Flags().BoolVar(&preview, "preview", true, "print the last frame in the terminal")
}

func setupLogging(w io.Writer) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command, kind string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(kind, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown %s preset: %s (available: %v)", kind, preset, config.ListPresets(kind))
		}
	}

	if configFile != "" {
		if err := config.Apply(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("solver") {
		cfg.Solver = solverPath
	}
	if flags.Changed("results") {
		cfg.Output.ResultsDir = resultsDir
	}
	if flags.Changed("imgs") {
		cfg.Output.ImagesDir = imagesDir
	}
	if flags.Changed("theme") {
		cfg.Render.Theme = themeName
	}
	if flags.Changed("alpha") {
		cfg.Params.Alpha = alpha
	}
	if flags.Changed("alphas") {
		cfg.Alphas = append([]float64(nil), alphas...)
	}
	if flags.Changed("dt") {
		cfg.Params.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Params.Time = duration
	}
	if flags.Changed("cells") {
		cfg.Params.Cells = cells
	}
	if flags.Changed("length") {
		cfg.Params.Length = length
	}
	if flags.Changed("interval") {
		cfg.Render.IntervalMS = intervalMS
	}
	if flags.Changed("ymin") {
		v := ymin
		cfg.Render.YMin = &v
	}
	if flags.Changed("ymax") {
		v := ymax
		cfg.Render.YMax = &v
	}
	if flags.Changed("width") {
		cfg.Render.Width = width
	}
	if flags.Changed("height") {
		cfg.Render.Height = height
	}
	if flags.Changed("allow-mismatch") {
		cfg.Render.AllowMismatchedGrids = allowMismatch
	}

	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitFailure, "invalid configuration", err)
	}
	return cfg, nil
}

func resolveTheme(cfg *config.Config) (viz.Theme, error) {
	theme, ok := viz.GetTheme(cfg.Render.Theme)
	if !ok {
		return theme, WrapExitError(ExitFailure, "invalid configuration",
			fmt.Errorf("unknown theme: %s (available: %v)", cfg.Render.Theme, viz.ThemeNames()))
	}
	return theme, nil
}

func newPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	theme, err := resolveTheme(cfg)
	if err != nil {
		return nil, err
	}

	logger := slog.Default()
	inv := solver.NewInvoker(cfg.Solver, storage.New(cfg.Output.ResultsDir), logger)
	if verbose {
		inv.Runner = solver.ProcessRunner{Echo: os.Stderr}
	}

	return &pipeline.Pipeline{
		Invoker: inv,
		Encoder: encode.New(cfg.Interval(), logger),
		Render: render.Options{
			YMin:                 cfg.Render.YMin,
			YMax:                 cfg.Render.YMax,
			Length:               cfg.Params.Length,
			AllowMismatchedGrids: cfg.Render.AllowMismatchedGrids,
			Logger:               logger,
		},
		Theme:     theme,
		Width:     cfg.Render.Width,
		Height:    cfg.Render.Height,
		ImagesDir: cfg.Output.ImagesDir,
		Logger:    logger,
	}, nil
}

func runHeat(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, "run")
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	params := cfg.HeatParams()
	slog.Info("running simulation",
		"alpha", params.Alpha,
		"dt", params.Dt,
		"time", params.Duration,
		"cells", params.Cells,
	)

	report, err := p.RunSingle(cmd.Context(), params, output)
	if report != nil && report.Run != nil {
		fmt.Fprintln(cmd.OutOrStdout(), viz.Summary("Simulation", runFields(report.Run)))
	}
	if err != nil {
		return err
	}

	printArtifact(cmd.OutOrStdout(), report)
	if preview {
		return printPreview(cmd.OutOrStdout(), report.Source, -1)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, "sweep")
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Alphas = cfg.Alphas[:0]
		for _, arg := range args {
			a, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return fmt.Errorf("invalid alpha %q: %w", arg, err)
			}
			cfg.Alphas = append(cfg.Alphas, a)
		}
		if err := cfg.Validate(); err != nil {
			return WrapExitError(ExitFailure, "invalid configuration", err)
		}
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	slog.Info("running sweep", "alphas", cfg.Alphas)
	report, err := p.RunSweep(cmd.Context(), cfg.Alphas, cfg.HeatParams(), output)
	if report != nil && report.Sweep != nil {
		printSweep(cmd.OutOrStdout(), report.Sweep)
	}
	if err != nil {
		return err
	}

	printArtifact(cmd.OutOrStdout(), report)
	if preview {
		return printPreview(cmd.OutOrStdout(), report.Source, -1)
	}
	return nil
}

func runFields(run *heat.Result) []viz.Field {
	p := run.Params()
	return []viz.Field{
		{Key: "run id", Value: run.ID()},
		{Key: "directory", Value: run.Dir()},
		{Key: "alpha", Value: fmt.Sprintf("%.3e", p.Alpha)},
		{Key: "dx", Value: fmt.Sprintf("%.3e", p.DX())},
		{Key: "dt", Value: fmt.Sprintf("%.3e", p.Dt)},
		{Key: "CFL", Value: fmt.Sprintf("%.3f", p.CFL())},
		{Key: "total time", Value: fmt.Sprintf("%.3f", p.Duration)},
		{Key: "cells", Value: strconv.Itoa(p.Cells)},
		{Key: "timesteps", Value: strconv.Itoa(len(run.Timesteps()))},
		{Key: "positions", Value: strconv.Itoa(len(run.Positions()))},
	}
}

func printSweep(w io.Writer, res *sweep.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ALPHA\tRUN\tSTEPS\tCFL\tDIR")
	for _, a := range res.Alphas() {
		run, _ := res.Get(a)
		fmt.Fprintf(tw, "%.3f\t%s\t%d\t%.3f\t%s\n",
			a,
			solver.ShortID(run.ID()),
			len(run.Timesteps()),
			run.Params().CFL(),
			run.Dir(),
		)
	}
	tw.Flush()
}

func printArtifact(w io.Writer, report *pipeline.Report) {
	if report.EncodeErr != nil {
		fmt.Fprintln(w, viz.StatusError.Render("animation failed:"), report.EncodeErr)
		return
	}
	art := report.Artifact
	fmt.Fprintln(w, viz.StatusOK.Render("saved:"), art.Path)
	fmt.Fprintln(w, viz.Summary("Animation", []viz.Field{
		{Key: "frames", Value: strconv.Itoa(art.Frames)},
		{Key: "fps", Value: fmt.Sprintf("%.1f", art.FPS)},
		{Key: "size", Value: fmt.Sprintf("%.2f MB", float64(art.Size)/(1024*1024))},
	}))
	for _, warning := range art.Warnings {
		fmt.Fprintln(w, viz.StatusWarn.Render("warning:"), warning)
	}
}

func printPreview(w io.Writer, src render.Source, index int) error {
	if src == nil || src.FrameCount() == 0 {
		return nil
	}
	i, err := frameAt(src, index)
	if err != nil {
		return err
	}
	f, err := src.Frame(i)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, viz.Preview(f, src.Layout(), 70, 12, !noColor))
	return nil
}

func frameAt(src render.Source, index int) (int, error) {
	n := src.FrameCount()
	i := index
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("frame %d out of range (%d frames)", index, n)
	}
	return i, nil
}

func openStore(cmd *cobra.Command) (*storage.Store, *config.Config, error) {
	cfg, err := resolveConfig(cmd, "run")
	if err != nil {
		return nil, nil, err
	}
	return storage.New(cfg.Output.ResultsDir), cfg, nil
}

func loadRun(cmd *cobra.Command, runID string) (*storage.RunMetadata, *heat.Result, *config.Config, error) {
	st, cfg, err := openStore(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	run, err := st.LoadResult(meta)
	if err != nil {
		return nil, nil, nil, &heat.DataError{Path: meta.Dir, Wrapped: err}
	}
	return meta, run, cfg, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, viz.Subtle.Render("no runs found in "+st.BaseDir()))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tALPHA\tDT\tT\tCELLS\tSTEPS\tCFL")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.3e\t%.4f\t%.3f\t%d\t%d\t%.3f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.Alpha,
			run.Params.Dt,
			run.Params.Duration,
			run.Params.Cells,
			run.Timesteps,
			run.CFL,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, run, _, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	fields := runFields(run)
	fields = append(fields,
		viz.Field{Key: "started", Value: meta.Timestamp.Format("2006-01-02 15:04:05")},
		viz.Field{Key: "solver", Value: meta.Solver},
	)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.Summary("Run "+solver.ShortID(meta.ID), fields))

	peaks := make([]float64, 0, len(run.Timesteps()))
	for _, t := range run.Timesteps() {
		recs, _ := run.At(t)
		peaks = append(peaks, metrics.Peak(recs))
	}
	fmt.Fprintln(out, viz.Label.Render("peak temperature"), viz.SparklineChart(peaks, 60))

	values := metrics.Evaluate(run, metrics.Default()...)
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(out, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %.6f\n", name, values[name])
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, run, _, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	src, err := render.NewSeries(run, render.Options{Logger: slog.Default()})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "frames: %d\n\n", src.FrameCount())
	return printPreview(out, src, frameIndex)
}

func animateRun(cmd *cobra.Command, args []string) error {
	_, run, cfg, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	// Stored runs keep their own domain length.
	p.Render.Length = 0

	report, err := p.Animate(run, output)
	if err != nil {
		return err
	}
	printArtifact(cmd.OutOrStdout(), report)
	if preview {
		return printPreview(cmd.OutOrStdout(), report.Source, -1)
	}
	return nil
}

func snapshotRun(cmd *cobra.Command, args []string) error {
	_, run, cfg, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	theme, err := resolveTheme(cfg)
	if err != nil {
		return err
	}

	src, err := render.NewSeries(run, render.Options{
		YMin:   cfg.Render.YMin,
		YMax:   cfg.Render.YMax,
		Logger: slog.Default(),
	})
	if err != nil {
		return err
	}
	i, err := frameAt(src, frameIndex)
	if err != nil {
		return err
	}
	frame, err := src.Frame(i)
	if err != nil {
		return err
	}

	svg := export.FrameToSVG(frame, src.Layout(), theme, width, height)
	if output == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), svg)
		return err
	}
	if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
		return err
	}
	slog.Info("snapshot saved", "path", output, "frame", i, "time", frame.Time)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, run, _, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return storage.WriteAggregate(cmd.OutOrStdout(), run.Records())
}

func exportJSON(cmd *cobra.Command, args []string) error {
	_, run, _, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(cmd.OutOrStdout(), run)
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	kinds := make([]string, 0, len(config.Presets))
	for kind := range config.Presets {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	fmt.Fprintln(out, viz.GradientText("heatanim presets", "#00ccff", "#ff4444"))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tNAME\tALPHA\tDT\tT\tCELLS\tDESCRIPTION")
	for _, kind := range kinds {
		for _, name := range config.ListPresets(kind) {
			cfg := config.GetPreset(kind, name)
			p := config.Presets[kind][name]
			a := fmt.Sprintf("%g", cfg.Params.Alpha)
			if kind == "sweep" {
				a = fmt.Sprintf("%v", cfg.Alphas)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%d\t%s\n",
				kind, name, a, cfg.Params.Dt, cfg.Params.Time, cfg.Params.Cells, p.Description)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.Label.Render("themes:"), viz.Value.Render(fmt.Sprint(viz.ThemeNames())))
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := config.DefaultConfigFile
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg, err := resolveConfig(cmd, "run")
	if err != nil {
		return err
	}
	if _, err := resolveTheme(cfg); err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), viz.StatusOK.Render("wrote"), path)
	return nil
}

func checkConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return WrapExitError(ExitFailure, "invalid configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitFailure, "invalid configuration", err)
	}
	if _, err := resolveTheme(cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.Summary("Config "+args[0], []viz.Field{
		{Key: "solver", Value: cfg.Solver},
		{Key: "alpha", Value: fmt.Sprintf("%g", cfg.Params.Alpha)},
		{Key: "alphas", Value: fmt.Sprint(cfg.Alphas)},
		{Key: "dt", Value: fmt.Sprintf("%g", cfg.Params.Dt)},
		{Key: "total time", Value: fmt.Sprintf("%g", cfg.Params.Time)},
		{Key: "cells", Value: strconv.Itoa(cfg.Params.Cells)},
		{Key: "CFL", Value: fmt.Sprintf("%.3f", cfg.HeatParams().CFL())},
		{Key: "theme", Value: cfg.Render.Theme},
		{Key: "results", Value: cfg.Output.ResultsDir},
	}))
	fmt.Fprintln(out, viz.StatusOK.Render("ok"))
	return nil
}
