package sim

import (
	"context"
	"fmt"

	"github.com/phasekit/lorenzlab/internal/phase"
)

type Config struct {
	Dt    float64
	Steps int
}

func DefaultConfig() Config {
	return Config{Dt: 0.01, Steps: 5000}
}

type Result struct {
	Trajectory *phase.Trajectory
	Metrics    map[string]float64
}

// Runner integrates one system with one stepper, strictly sequentially.
type Runner struct {
	sys       phase.System
	stepper   phase.Stepper
	metrics   []phase.Metric
	observers []phase.Observer
}

func NewRunner(sys phase.System, stepper phase.Stepper) *Runner {
	return &Runner{sys: sys, stepper: stepper}
}

func (r *Runner) AddMetric(m phase.Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o phase.Observer) { r.observers = append(r.observers, o) }

// Run advances x0 by cfg.Steps fixed steps and returns the trajectory of
// all cfg.Steps+1 states, stamped at exactly i*cfg.Dt.
//
// Integration never stops early: non-finite states propagate through the
// recurrence and land in the trajectory as-is. Cancellation is the only
// mid-run exit and returns no partial trajectory, so every returned
// trajectory has the full length.
func (r *Runner) Run(ctx context.Context, x0 phase.State, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != r.sys.Dim() {
		return nil, fmt.Errorf("%w: state has %d components, system wants %d",
			phase.ErrDimension, len(x0), r.sys.Dim())
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	states := make([]phase.State, 0, cfg.Steps+1)
	times := make([]float64, 0, cfg.Steps+1)

	x := x0.Clone()
	states = append(states, x.Clone())
	times = append(times, 0)

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		r.observe(x, t)

		x = r.stepper.Step(r.sys, x, t, cfg.Dt)

		states = append(states, x.Clone())
		times = append(times, float64(i+1)*cfg.Dt)
	}

	r.observe(x, float64(cfg.Steps)*cfg.Dt)

	result := &Result{
		Trajectory: &phase.Trajectory{States: states, Times: times},
		Metrics:    make(map[string]float64),
	}
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (r *Runner) observe(x phase.State, t float64) {
	for _, m := range r.metrics {
		m.Observe(x, t)
	}
	for _, obs := range r.observers {
		obs.OnStep(x, t)
	}
}

func validateConfig(cfg Config) error {
	// the negated comparison also rejects NaN step sizes
	if !(cfg.Dt > 0) {
		return fmt.Errorf("%w: step size must be positive, got %v", phase.ErrInvalidArgument, cfg.Dt)
	}
	if cfg.Steps < 1 {
		return fmt.Errorf("%w: step count must be at least 1, got %d", phase.ErrInvalidArgument, cfg.Steps)
	}
	return nil
}
