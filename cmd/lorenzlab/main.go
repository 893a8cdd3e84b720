package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/phasekit/lorenzlab/internal/analysis"
	"github.com/phasekit/lorenzlab/internal/config"
	"github.com/phasekit/lorenzlab/internal/experiment"
	"github.com/phasekit/lorenzlab/internal/lorenz"
	"github.com/phasekit/lorenzlab/internal/metrics"
	"github.com/phasekit/lorenzlab/internal/phase"
	"github.com/phasekit/lorenzlab/internal/sim"
	"github.com/phasekit/lorenzlab/internal/storage"
)

var (
	dataDir    string
	dt         float64
	steps      int
	sigma      float64
	rho        float64
	beta       float64
	x0         float64
	y0         float64
	z0         float64
	integrator string
	// Config file
	configFile string
	// Preset name
	preset string
	// Divergence settings
	perturb float64
	factor  float64
	// Rho sweep range
	rhoMin  float64
	rhoMax  float64
	rhoStep float64
)

// Accent styles for terminal output
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))
)

// main registers commands and flags and executes the root command with a
// signal-aware context so long integrations stop cleanly on interrupt.
// It exits the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "lorenzlab",
		Short: "lorenz system trajectory lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lorenzlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate one trajectory",
		RunE:  runSimulation,
	}
	addSystemFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scenario of trajectories concurrently",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	divergeCmd := &cobra.Command{
		Use:   "diverge",
		Short: "track separation of a perturbed trajectory pair",
		RunE:  runDivergence,
	}
	addSystemFlags(divergeCmd)
	divergeCmd.Flags().Float64Var(&perturb, "perturb", 1e-6, "initial x perturbation")
	divergeCmd.Flags().Float64Var(&factor, "factor", 1000.0, "separation growth threshold")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep rho and classify each regime",
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	sweepCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	sweepCmd.Flags().Float64Var(&sigma, "sigma", 10.0, "prandtl number")
	sweepCmd.Flags().Float64Var(&beta, "beta", 8.0/3.0, "geometric factor")
	sweepCmd.Flags().StringVar(&integrator, "integrator", "euler", "integrator")
	sweepCmd.Flags().Float64Var(&perturb, "perturb", 1e-6, "initial x perturbation")
	sweepCmd.Flags().Float64Var(&factor, "factor", 1000.0, "separation growth threshold")
	sweepCmd.Flags().Float64Var(&rhoMin, "rho-min", 5.0, "sweep start")
	sweepCmd.Flags().Float64Var(&rhoMax, "rho-max", 45.0, "sweep end")
	sweepCmd.Flags().Float64Var(&rhoStep, "rho-step", 5.0, "sweep increment")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same trajectory",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addSystemFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	rmCmd := &cobra.Command{
		Use:   "rm [run_id]",
		Short: "delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  removeRun,
	}

	rootCmd.AddCommand(runCmd, batchCmd, divergeCmd, sweepCmd, compareCmd, presetsCmd, listCmd, exportCmd, exportCSVCmd, exportJSONCmd, rmCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func addSystemFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Float64Var(&sigma, "sigma", 10.0, "prandtl number")
	cmd.Flags().Float64Var(&rho, "rho", 28.0, "rayleigh number")
	cmd.Flags().Float64Var(&beta, "beta", 8.0/3.0, "geometric factor")
	cmd.Flags().Float64Var(&x0, "x", 1.0, "initial x")
	cmd.Flags().Float64Var(&y0, "y", 1.0, "initial y")
	cmd.Flags().Float64Var(&z0, "z", 1.0, "initial z")
	cmd.Flags().StringVar(&integrator, "integrator", "euler", "integrator")
}

func currentParams() lorenz.Params {
	return lorenz.Params{Sigma: sigma, Rho: rho, Beta: beta}
}

func initialState() phase.State {
	return phase.State{x0, y0, z0}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// applyConfig copies cfg into the parameter globals, skipping any flag the
// user set explicitly on the command line. Callers layer sources lowest
// precedence first: preset, then config file, with explicit flags beating
// both.
func applyConfig(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("dt") {
		dt = cfg.Dt
	}
	if !cmd.Flags().Changed("steps") {
		steps = cfg.Steps
	}
	if !cmd.Flags().Changed("sigma") {
		sigma = cfg.Sigma
	}
	if !cmd.Flags().Changed("rho") {
		rho = cfg.Rho
	}
	if !cmd.Flags().Changed("beta") {
		beta = cfg.Beta
	}
	if !cmd.Flags().Changed("x") {
		x0 = cfg.X
	}
	if !cmd.Flags().Changed("y") {
		y0 = cfg.Y
	}
	if !cmd.Flags().Changed("z") {
		z0 = cfg.Z
	}
	if !cmd.Flags().Changed("integrator") {
		integrator = cfg.Integrator
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	// Load preset if specified
	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			if s := experiment.Suggest(preset, config.ListPresets()); s != "" {
				return fmt.Errorf("unknown preset: %s (did you mean %q?)", preset, s)
			}
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		applyConfig(cmd, cfg)
	}

	// Load config file if specified (overrides preset values)
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyConfig(cmd, cfg)
	}

	newStepper, err := experiment.NewRegistry().GetStepper(integrator)
	if err != nil {
		return err
	}

	st, err := storage.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	p := currentParams()
	r := sim.NewRunner(lorenz.New(p), newStepper())
	r.AddMetric(metrics.NewMaxNorm())
	r.AddMetric(metrics.NewStability(50.0))
	r.AddMetric(metrics.NewWingDwell())

	fmt.Println("running lorenz simulation...")
	start := time.Now()

	result, err := r.Run(cmd.Context(), initialState(), sim.Config{Dt: dt, Steps: steps})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	meta, err := st.Save(integrator, p, dt, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", elapsed)
	fmt.Println(titleStyle.Render("lorenz trajectory"))
	fmt.Printf("%s sigma=%.4f rho=%.4f beta=%.4f\n", labelStyle.Render("params:"), p.Sigma, p.Rho, p.Beta)
	fmt.Printf("%s %s, dt=%.4g, steps=%d\n", labelStyle.Render("scheme:"), integrator, dt, steps)

	final := result.Trajectory.Final()
	fmt.Printf("%s (%.6f, %.6f, %.6f)\n", labelStyle.Render("final state:"), final[0], final[1], final[2])

	fmt.Println(labelStyle.Render("equilibria:"))
	for _, eq := range p.Equilibria() {
		fmt.Printf("  (%.4f, %.4f, %.4f)\n", eq[0], eq[1], eq[2])
	}

	fmt.Println(labelStyle.Render("metrics:"))
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	if idx := result.Trajectory.FirstNonFinite(); idx >= 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("trajectory non-finite from step %d (t=%.4f), try a smaller dt", idx, result.Trajectory.Times[idx])))
	}

	fmt.Printf("\nrun id: %s\n", meta.ID)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := experiment.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st, err := storage.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Printf("running scenario %q (%d runs, %s, dt=%.4g, steps=%d)\n", sc.Name, len(sc.Runs), sc.Integrator, sc.Dt, sc.Steps)
	if sc.Description != "" {
		fmt.Println(labelStyle.Render(sc.Description))
	}
	fmt.Println()

	start := time.Now()
	results, err := experiment.RunScenario(cmd.Context(), experiment.NewRegistry(), sc)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tRHO\tFINAL_X\tFINAL_Z\tFINITE\tRUN")

	for _, res := range results {
		p := res.Spec.Params()
		meta, err := st.Save(sc.Integrator, p, sc.Dt, res.Result)
		if err != nil {
			return err
		}

		final := res.Result.Trajectory.Final()
		fmt.Fprintf(w, "%s\t%.2f\t%.4f\t%.4f\t%d\t%s\n",
			res.Label, p.Rho, final[0], final[2], meta.FinitePoints, shortID(meta.ID))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ncompleted in %v\n", elapsed)
	return nil
}

func runDivergence(cmd *cobra.Command, args []string) error {
	newStepper, err := experiment.NewRegistry().GetStepper(integrator)
	if err != nil {
		return err
	}

	p := currentParams()
	base := initialState()
	shifted := base.Clone()
	shifted[0] += perturb

	ens := sim.NewEnsemble(newStepper)
	results, err := ens.Run(cmd.Context(), []sim.Variation{
		{Label: "base", Sys: lorenz.New(p), X0: base},
		{Label: "perturbed", Sys: lorenz.New(p), X0: shifted},
	}, sim.Config{Dt: dt, Steps: steps})
	if err != nil {
		return err
	}

	a, b := results[0].Trajectory, results[1].Trajectory
	sep, err := analysis.Separation(a, b)
	if err != nil {
		return err
	}
	div, err := analysis.Diverge(a, b, factor)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("perturbed pair divergence"))
	fmt.Printf("sigma=%.4f rho=%.4f beta=%.4f dt=%.4g steps=%d perturb=%.2e\n\n", p.Sigma, p.Rho, p.Beta, dt, steps, perturb)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tTIME\tSEPARATION")
	stride := len(sep) / 10
	if stride < 1 {
		stride = 1
	}
	for i := 0; i < len(sep); i += stride {
		fmt.Fprintf(w, "%d\t%.2f\t%.6e\n", i, a.Times[i], sep[i])
	}
	if (len(sep)-1)%stride != 0 {
		fmt.Fprintf(w, "%d\t%.2f\t%.6e\n", len(sep)-1, a.Times[len(sep)-1], sep[len(sep)-1])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ninitial separation: %.6e\n", div.Initial)
	fmt.Printf("final separation: %.6e\n", div.Final)
	fmt.Printf("max separation: %.6e\n", div.Max)
	fmt.Printf("growth factor: %.2e\n", div.Growth)
	if div.CrossIndex >= 0 {
		fmt.Printf("%.0fx crossing: step %d (t=%.2f)\n", factor, div.CrossIndex, a.Times[div.CrossIndex])
	}
	fmt.Printf("separation fit lambda: %.4f\n", div.Lambda)

	lambda := analysis.LargestLyapunov(lorenz.New(p), newStepper, base, dt, steps, perturb)
	fmt.Printf("benettin lambda: %.4f\n", lambda)
	if lambda > 0 {
		fmt.Println(warnStyle.Render("positive largest exponent, nearby trajectories diverge exponentially"))
	}

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	newStepper, err := experiment.NewRegistry().GetStepper(integrator)
	if err != nil {
		return err
	}
	if rhoStep <= 0 {
		return fmt.Errorf("rho-step must be positive, got %v", rhoStep)
	}

	fmt.Println(titleStyle.Render("rho sweep"))
	fmt.Printf("sigma=%.4f beta=%.4f dt=%.4g steps=%d perturb=%.2e\n\n", sigma, beta, dt, steps, perturb)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RHO\tREGIME\tGROWTH\tLAMBDA\tFINITE")

	base := lorenz.DefaultState()
	for r := rhoMin; r <= rhoMax+1e-9; r += rhoStep {
		p := lorenz.Params{Sigma: sigma, Rho: r, Beta: beta}
		shifted := base.Clone()
		shifted[0] += perturb

		ens := sim.NewEnsemble(newStepper)
		results, err := ens.Run(cmd.Context(), []sim.Variation{
			{Label: "base", Sys: lorenz.New(p), X0: base},
			{Label: "perturbed", Sys: lorenz.New(p), X0: shifted},
		}, sim.Config{Dt: dt, Steps: steps})
		if err != nil {
			return err
		}

		div, err := analysis.Diverge(results[0].Trajectory, results[1].Trajectory, factor)
		if err != nil {
			return err
		}
		lambda := analysis.LargestLyapunov(lorenz.New(p), newStepper, base, dt, steps, perturb)

		regime := "stable"
		if lambda > 0 {
			regime = "chaotic"
		}
		finite := "yes"
		if results[0].Trajectory.FirstNonFinite() >= 0 {
			finite = "no"
		}
		fmt.Fprintf(w, "%.2f\t%s\t%.2e\t%.4f\t%s\n", r, regime, div.Growth, lambda, finite)
	}

	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	p := currentParams()
	start0 := initialState()

	fmt.Printf("comparing integrators (rho=%.2f, dt=%.4g, steps=%d)\n\n", p.Rho, dt, steps)
	fmt.Printf("%-12s  %-12s  %-12s  %-12s  %-12s  %-12s\n", "integrator", "final_x", "final_y", "final_z", "drift", "time_ms")
	fmt.Println(strings.Repeat("-", 82))

	var reference phase.State
	for _, name := range args {
		newStepper, err := reg.GetStepper(name)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		r := sim.NewRunner(lorenz.New(p), newStepper())

		start := time.Now()
		result, err := r.Run(cmd.Context(), start0, sim.Config{Dt: dt, Steps: steps})
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		final := result.Trajectory.Final()
		drift := 0.0
		if reference == nil {
			reference = final
		} else {
			drift = final.Distance(reference)
		}

		fmt.Printf("%-12s  %12.6f  %12.6f  %12.6f  %12.2e  %12.2f\n",
			name, final[0], final[1], final[2], drift, float64(elapsed.Microseconds())/1000)
	}

	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIGMA\tRHO\tBETA\tDT\tSTEPS\tINTEG")

	for _, name := range config.ListPresets() {
		c := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%.4g\t%.4g\t%d\t%s\n",
			name, c.Sigma, c.Rho, c.Beta, c.Dt, c.Steps, c.Integrator)
	}

	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := storage.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tINTEG\tRHO\tDT\tSTEPS\tFINITE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.4g\t%.4g\t%d\t%d\n",
			shortID(run.ID),
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Integrator,
			run.Params.Rho,
			run.Dt,
			run.Steps,
			run.FinitePoints,
		)
	}

	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st, err := storage.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.Resolve(args[0])
	if err != nil {
		return err
	}
	meta, err := st.Load(id)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st, err := storage.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.Resolve(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(id)
	if err != nil {
		return err
	}

	return storage.ExportCSV(os.Stdout, tr)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := storage.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.Resolve(args[0])
	if err != nil {
		return err
	}
	meta, err := st.Load(id)
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(id)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, tr)
}

func removeRun(cmd *cobra.Command, args []string) error {
	st, err := storage.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.Resolve(args[0])
	if err != nil {
		return err
	}
	if err := st.Delete(id); err != nil {
		return err
	}

	fmt.Printf("deleted %s\n", id)
	return nil
}
