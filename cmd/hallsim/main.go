package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/hallsim/internal/config"
	"github.com/san-kum/hallsim/internal/experiment"
	"github.com/san-kum/hallsim/internal/gas"
	"github.com/san-kum/hallsim/internal/storage"
	"github.com/san-kum/hallsim/internal/viz"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	verbose bool
	// Run overrides
	configFile string
	preset     string
	law        string
	fluxName   string
	integrator string
	cells      int
	duration   float64
	cfl        float64
	dt         float64
	workers    int
	policy     string
	snapEvery  int
	jsonOut    string
	// Plot options
	quantity string
	snapshot int
	// Live view
	frameEvery int
	// Species listing
	maxCharge int

	log = logrus.New()
)

// main registers the hallsim commands and executes the root command,
// exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "hallsim",
		Short: "1D Hall thruster plasma flow solver",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(os.Stderr)
			log.SetLevel(logrus.InfoLevel)
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".hallsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every step")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store its profiles",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&jsonOut, "json", "", "also export the run as JSON to this path (- for stdout)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored profiles",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&quantity, "quantity", "density", "density, velocity or temperature")
	plotCmd.Flags().IntVar(&snapshot, "snapshot", -1, "snapshot index, negative counts from the end")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and profiles as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	speciesCmd := &cobra.Command{
		Use:   "species",
		Short: "list the built-in propellants",
		Args:  cobra.NoArgs,
		RunE:  listSpecies,
	}
	speciesCmd.Flags().IntVar(&maxCharge, "max-charge", 3, "highest ion charge to list")

	presetsCmd := &cobra.Command{
		Use:   "presets [law]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			laws := config.ListLaws()
			if len(args) > 0 {
				laws = args
			}
			for _, l := range laws {
				presets := config.ListPresets(l)
				if len(presets) == 0 {
					fmt.Printf("no presets for law: %s\n", l)
					continue
				}
				fmt.Printf("presets for %s:\n", l)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameEvery, "every", 5, "solver steps between redraws")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time a run at increasing worker counts",
		Args:  cobra.NoArgs,
		RunE:  benchWorkers,
	}
	addRunFlags(benchCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, speciesCmd, presetsCmd, liveCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&law, "law", "euler", "conservation law: continuity, isothermal or euler")
	cmd.Flags().StringVar(&fluxName, "flux", "hlle", "numerical flux")
	cmd.Flags().StringVar(&integrator, "integrator", "ssprk2", "time integrator")
	cmd.Flags().IntVar(&cells, "cells", config.DefaultCells, "number of cells")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated time (s)")
	cmd.Flags().Float64Var(&cfl, "cfl", config.DefaultCFL, "Courant number")
	cmd.Flags().Float64Var(&dt, "dt", 0, "fixed time step (s), 0 for CFL stepping")
	cmd.Flags().IntVar(&workers, "workers", runtime.GOMAXPROCS(0), "parallel residual workers")
	cmd.Flags().StringVar(&policy, "policy", "abort", "invalid state policy: abort or retry")
	cmd.Flags().IntVar(&snapEvery, "snapshot-every", 0, "keep every n-th step")
}

// resolveConfig layers the preset, the config file and changed flags, in
// that order. Keys absent from the config file keep the preset's values.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := cfg.Law

	if preset != "" {
		cfg = config.FindPreset(preset)
		if cfg == nil {
			var all []string
			for _, l := range config.ListLaws() {
				all = append(all, config.ListPresets(l)...)
			}
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, all)
		}
		name = preset
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		name = strings.TrimSuffix(strings.TrimSuffix(configFile, ".yaml"), ".yml")
		name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	}

	flags := cmd.Flags()
	if flags.Changed("law") {
		cfg.Law = law
	}
	if flags.Changed("flux") {
		cfg.Flux = fluxName
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("cells") {
		cfg.Grid.Cells = cells
	}
	if flags.Changed("time") {
		cfg.Solver.Duration = duration
	}
	if flags.Changed("cfl") {
		cfg.Solver.CFL = cfl
	}
	if flags.Changed("dt") {
		cfg.Solver.Dt = dt
	}
	if flags.Changed("workers") || cfg.Solver.Workers == 0 {
		cfg.Solver.Workers = workers
	}
	if flags.Changed("policy") {
		cfg.Solver.Policy = policy
	}
	if flags.Changed("snapshot-every") {
		cfg.Solver.SnapshotEvery = snapEvery
	}
	return cfg, name, nil
}

func setup(cmd *cobra.Command) (*experiment.Experiment, *config.Config, string, error) {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, "", err
	}
	ec, err := cfg.Build()
	if err != nil {
		return nil, nil, "", err
	}
	exp := experiment.New(ec, log)
	if err := exp.SetupFromRegistry(experiment.NewRegistry()); err != nil {
		return nil, nil, "", err
	}
	return exp, cfg, name, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	exp, cfg, name, err := setup(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s (%s, %d cells)...\n", name, cfg.Law, cfg.Grid.Cells)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	info := storage.RunInfo{Name: name, Law: cfg.Law, Flux: cfg.Flux, Integrator: cfg.Integrator}
	runID, err := st.Save(info, result)
	if err != nil {
		return err
	}

	switch jsonOut {
	case "":
	case "-":
		if err := storage.ExportJSONStdout(info, result); err != nil {
			return err
		}
	default:
		if err := storage.ExportJSON(jsonOut, info, result); err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (rejected %d)\n", result.Steps, result.Rejected)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for n := range result.Metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %s: %.6g\n", n, result.Metrics[n])
	}

	return nil
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
	fmt.Fprintln(w, "ID\tLAW\tSPECIES\tCELLS\tTIME\tSIM TIME\tSTEPS\tFLUX\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%.3es\t%d\t%s\t%s\n",
			run.ID,
			run.Law,
			strings.Join(run.Species, ","),
			run.Cells,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.FinalTime,
			run.Steps,
			run.Flux,
			run.Integrator,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	q, err := viz.ParseQuantity(quantity)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	profiles, err := st.LoadProfiles(runID)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return fmt.Errorf("no data to plot")
	}

	idx := snapshot
	if idx < 0 {
		idx += len(profiles)
	}
	if idx < 0 || idx >= len(profiles) {
		return fmt.Errorf("snapshot %d out of range (%d stored)", snapshot, len(profiles))
	}
	p := profiles[idx]

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("law: %s\n", meta.Law)
	fmt.Printf("t = %.4e s (snapshot %d of %d)\n\n", p.Time, idx+1, len(profiles))

	var source map[string][]float64
	switch q {
	case viz.Density:
		source = p.Density
	case viz.Velocity:
		source = p.Velocity
	default:
		source = p.Temperature
	}
	series := make([][]float64, len(meta.Species))
	for k, name := range meta.Species {
		series[k] = source[name]
	}

	fmt.Println(viz.PlotSpecies(meta.Species, series, q, 80, 15))
	fmt.Printf("x from %g to %g m\n", meta.Left, meta.Right)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	profiles, err := st.LoadProfiles(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		*storage.RunMetadata
		Profiles []storage.Profile `json:"profiles"`
	}{meta, profiles})
}

func listSpecies(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GAS\tSYMBOL\tGAMMA\tM (kg/kmol)\tMASS\tR\tCP\tCV")
	for _, g := range gas.Catalog() {
		props := g.DimensionedProperties()
		fmt.Fprintf(w, "%s\t%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
			g.Name(), g.ShortName(), g.Gamma(), g.MolarMass(),
			props["m"], props["R"], props["cp"], props["cv"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\tCHARGE\tZe/m (C/kg)")
	for _, g := range gas.Catalog() {
		ions, err := gas.Ions(g, maxCharge)
		if err != nil {
			return err
		}
		for _, sp := range ions {
			fmt.Fprintf(w, "%s\t%d\t%.4e\n", sp, sp.Charge(), sp.SpecificCharge())
		}
	}
	fmt.Fprintf(w, "%s\t%d\t%.4e\n", gas.Electron, gas.Electron.Charge(), gas.Electron.SpecificCharge())
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	// The TUI owns the terminal; keep the solver quiet.
	log.SetLevel(logrus.WarnLevel)
	log.SetOutput(os.Stderr)

	exp, cfg, name, err := setup(cmd)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s (%s)", name, cfg.Law)
	model := viz.NewLiveModel(title, exp.RunWithCallback, exp.Config().Solver.Duration, frameEvery)

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return err
	}
	if lm, ok := final.(viz.LiveModel); ok && lm.Err() != nil {
		return lm.Err()
	}
	return nil
}

func benchWorkers(cmd *cobra.Command, args []string) error {
	log.SetLevel(logrus.WarnLevel)

	maxWorkers := runtime.GOMAXPROCS(0)
	counts := []int{1}
	for n := 2; n <= maxWorkers; n *= 2 {
		counts = append(counts, n)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range counts {
		if err := cmd.Flags().Set("workers", fmt.Sprint(n)); err != nil {
			return err
		}
		exp, _, _, err := setup(cmd)
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n", n, result.Steps, elapsed, float64(result.Steps)/elapsed.Seconds())
	}

	return w.Flush()
}
