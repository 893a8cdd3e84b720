package sim

import (
	"context"
	"sync"

	"github.com/phasekit/lorenzlab/internal/phase"
)

// Variation is one member of an ensemble: a system and its initial state,
// tagged for reporting.
type Variation struct {
	Label string
	Sys   phase.System
	X0    phase.State
}

// Ensemble integrates independent variations concurrently, one goroutine
// per variation. Every run gets a fresh stepper from the factory; steppers
// carry scratch buffers and must never be shared across goroutines.
type Ensemble struct {
	newStepper func() phase.Stepper
}

func NewEnsemble(newStepper func() phase.Stepper) *Ensemble {
	return &Ensemble{newStepper: newStepper}
}

// Run executes all variations under the same cfg. Results come back in
// input order; the first error wins.
func (e *Ensemble) Run(ctx context.Context, variations []Variation, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(variations))
	errs := make([]error, len(variations))

	var wg sync.WaitGroup
	for i := range variations {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			v := variations[idx]
			r := NewRunner(v.Sys, e.newStepper())
			results[idx], errs[idx] = r.Run(ctx, v.X0, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
