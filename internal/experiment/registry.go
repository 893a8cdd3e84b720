package experiment

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/phasekit/lorenzlab/internal/integrators"
	"github.com/phasekit/lorenzlab/internal/phase"
)

// StepperFactory builds a fresh stepper per call. Steppers carry scratch
// buffers, so every concurrent run needs its own instance.
type StepperFactory func() phase.Stepper

type Registry struct {
	steppers map[string]StepperFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		steppers: make(map[string]StepperFactory),
	}

	r.steppers["euler"] = func() phase.Stepper { return integrators.NewEuler() }
	r.steppers["heun"] = func() phase.Stepper { return integrators.NewHeun() }
	r.steppers["rk4"] = func() phase.Stepper { return integrators.NewRK4() }

	return r
}

func (r *Registry) GetStepper(name string) (StepperFactory, error) {
	fn, ok := r.steppers[name]
	if !ok {
		if s := Suggest(name, r.ListSteppers()); s != "" {
			return nil, fmt.Errorf("unknown integrator: %s (did you mean %q?)", name, s)
		}
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn, nil
}

func (r *Registry) ListSteppers() []string {
	names := make([]string, 0, len(r.steppers))
	for name := range r.steppers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Suggest picks the closest of known to name within an edit distance of
// two, or "" when nothing is close enough.
func Suggest(name string, known []string) string {
	best := ""
	bestDist := 3
	for _, k := range known {
		if d := levenshtein.ComputeDistance(name, k); d < bestDist {
			best = k
			bestDist = d
		}
	}
	return best
}
