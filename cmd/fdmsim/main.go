package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/experiment"
	"github.com/san-kum/fdmsim/internal/logging"
	"github.com/san-kum/fdmsim/internal/sim"
	"github.com/san-kum/fdmsim/internal/storage"
	"github.com/san-kum/fdmsim/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	dt         float64
	substeps   int
	duration   float64
	integrator string
	configFile string
	preset     string
	dataFile   string
	holdAlt    float64
	noSave     bool
	plotVars   []string
	outFile    string
	column     string
	svgView    string
	svgAt      float64
	tuneParams []string
	tuneMetric string
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "fdmsim",
		Short:        "6-DOF rotorcraft flight dynamics simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fdmsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [aircraft]",
		Short: "run simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live [aircraft]",
		Short: "fly with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&plotVars, "vars", []string{"altitude", "main_omega", "mass"}, "columns to plot")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [aircraft]",
		Short: "list available presets for an aircraft",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := aircraftArg(args)
			presets := config.ListPresets(name)
			if len(presets) == 0 {
				fmt.Printf("no presets for aircraft: %s\n", name)
				return nil
			}
			fmt.Printf("presets for %s:\n", name)
			for _, p := range presets {
				cfg := config.GetPreset(name, p)
				fmt.Printf("  %-12s %5.0fs  %s\n", p, cfg.Duration, cfg.Integrator)
			}
			return nil
		},
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [aircraft]",
		Short: "show mass properties at the initial loading",
		Args:  cobra.MaximumNArgs(1),
		RunE:  inspectAircraft,
	}
	addRunFlags(inspectCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same run, in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addRunFlags(compareCmd)

	aircraftCmd := &cobra.Command{
		Use:   "aircraft",
		Short: "list aircraft types and integrators",
		Run: func(cmd *cobra.Command, args []string) {
			registry := experiment.NewRegistry()
			for _, name := range registry.ListAircraft() {
				t, _ := registry.GetAircraft(name)
				fmt.Printf("%-8s %s\n", name, t.Description)
			}
			fmt.Printf("\nintegrators: %s\n", strings.Join(registry.ListIntegrators(), ", "))
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a recorded column",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "pitch", "column to analyze")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderSVG,
	}
	svgCmd.Flags().StringVar(&svgView, "view", "track", "track or plan")
	svgCmd.Flags().Float64Var(&svgAt, "at", -1, "time of the plan view [s] (default end of run)")
	svgCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	tuneCmd := &cobra.Command{
		Use:   "tune [aircraft]",
		Short: "grid search autopilot gains",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneAutopilot,
	}
	addRunFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", []string{"kp=0.04,0.08,0.16", "kd=0.06,0.12,0.24"}, "parameter grid as name=v1,v2,...")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "altitude_deviation", "metric to minimise")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd, inspectCmd, compareCmd, aircraftCmd, analyzeCmd, svgCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "external timestep [s]")
	cmd.Flags().IntVar(&substeps, "substeps", config.DefaultSubsteps, "integration substeps per timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration [s]")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	cmd.Flags().StringVar(&configFile, "config", "", "run config file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&dataFile, "data-file", "", "aircraft data file (yaml)")
	cmd.Flags().Float64Var(&holdAlt, "altitude-hold", 0, "engage altitude hold at this altitude [m]")
}

func aircraftArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return config.DefaultAircraft
}

func newLogger() *zap.SugaredLogger {
	if verbose {
		return logging.NewDebugLogger("fdmsim")
	}
	return logging.NewLogger("fdmsim")
}

// buildConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	name := aircraftArg(args)
	cfg := config.DefaultConfig()
	cfg.Aircraft = name

	if preset != "" {
		cfg = config.GetPreset(name, preset)
		if cfg == nil {
			return nil, errors.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("substeps") {
		cfg.Substeps = substeps
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("data-file") {
		cfg.DataFile = dataFile
	}
	if flags.Changed("altitude-hold") {
		cfg.Autopilot.AltitudeHold = true
		cfg.Autopilot.AttitudeHold = true
		cfg.Autopilot.Target = holdAlt
	}
	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, nil, logger)
	if err := exp.Setup(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Infow("running", "aircraft", cfg.Aircraft, "duration", cfg.Duration, "dt", cfg.Dt, "substeps", cfg.Substeps, "integrator", cfg.Integrator)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		logger.Warnw("run stopped early", "error", err, "steps", result.StepsTaken)
	}
	elapsed := time.Since(start)

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	final := result.Final()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("final: t=%.2fs alt=%.1fm N=%.1fm E=%.1fm mass=%.1fkg rotor=%.2frad/s\n",
		final.Time, final.Altitude, final.North, final.East, final.Mass, final.MainOmega)
	printMetrics(result.Metrics)
	return err
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// the terminal belongs to the view; keep logs out of it
	s, err := experiment.NewRegistry().Build(cfg, logging.Nop())
	if err != nil {
		return err
	}
	return viz.Run(s, cfg)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAIRCRAFT\tTIME\tDURATION\tDT\tSUBSTEPS\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%s\n",
			run.ID,
			run.Aircraft,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Substeps,
			run.Integrator,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	records, err := st.LoadRecords(runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errors.New("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("aircraft: %s\n", meta.Aircraft)
	fmt.Printf("samples: %d\n\n", len(records))

	for _, name := range plotVars {
		data := storage.Column(records, name)
		if data == nil {
			return errors.Errorf("unknown column %q (available: %s)", name, strings.Join(storage.Columns(), ", "))
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	records, err := st.LoadRecords(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errors.New("no data to export")
	}

	if outFile != "" {
		return storage.ExportCSVFile(outFile, records)
	}
	return storage.WriteCSV(os.Stdout, records)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	records, err := st.LoadRecords(runID)
	if err != nil {
		return err
	}

	if outFile != "" {
		return storage.ExportJSONFile(outFile, *meta, records)
	}
	return storage.ExportJSON(os.Stdout, *meta, records)
}

func inspectAircraft(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	s, err := experiment.NewRegistry().Build(cfg, logging.Nop())
	if err != nil {
		return err
	}
	sess, err := s.Start(cfg)
	if err != nil {
		return err
	}

	m := sess.Vehicle().Mass()
	p := m.Properties()
	row := func(label string, format string, a ...any) {
		fmt.Println(labelStyle.Render(label) + fmt.Sprintf(format, a...))
	}

	fmt.Println(titleStyle.Render(strings.ToUpper(sess.Vehicle().Name()) + " mass properties"))
	row("empty mass", "%.1f kg", p.EmptyMass)
	row("total mass", "%.1f kg", p.TotalMass)
	row("empty cm", "[%.3f %.3f %.3f] m", p.EmptyCM.X, p.EmptyCM.Y, p.EmptyCM.Z)
	row("total cm", "[%.3f %.3f %.3f] m", p.TotalCM.X, p.TotalCM.Y, p.TotalCM.Z)
	for i, r := range p.Inertia {
		label := ""
		if i == 0 {
			label = "inertia (cm)"
		}
		row(label, "[%9.1f %9.1f %9.1f] kg·m²", r[0], r[1], r[2])
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("variable masses"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMASS\tMAX\tPOSITION")
	for _, vm := range m.VariableMasses() {
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t[%.2f %.2f %.2f]\n", vm.Name, vm.Mass, vm.MassMax, vm.Position.X, vm.Position.Y, vm.Position.Z)
	}
	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[:0])
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	factory := func(i int) (*sim.Simulator, *config.Config, error) {
		c := *cfg
		c.Integrator = args[i]
		s, err := registry.Build(&c, logging.Nop())
		return s, &c, err
	}

	fmt.Printf("comparing integrators for %s (dt=%.4f, substeps=%d, duration=%.1fs)\n\n", cfg.Aircraft, cfg.Dt, cfg.Substeps, cfg.Duration)

	start := time.Now()
	results, err := sim.NewEnsemble(factory, len(args)).Run(context.Background())
	elapsed := time.Since(start)

	fmt.Printf("%-12s  %-12s  %-12s  %-12s\n", "integrator", "final_alt", "final_north", "energy_drift")
	fmt.Println(strings.Repeat("-", 54))
	for i, r := range results {
		if r == nil {
			fmt.Printf("%-12s  failed\n", args[i])
			continue
		}
		final := r.Final()
		fmt.Printf("%-12s  %12.4f  %12.4f  %12.2e\n", args[i], final.Altitude, final.North, r.Metrics["energy_drift"])
	}
	fmt.Printf("\nwall time %v\n", elapsed)
	return err
}
