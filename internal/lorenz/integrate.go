package lorenz

import (
	"context"

	"github.com/phasekit/lorenzlab/internal/integrators"
	"github.com/phasekit/lorenzlab/internal/phase"
	"github.com/phasekit/lorenzlab/internal/sim"
)

// Integrate runs a fixed-step explicit Euler integration of the Lorenz
// flow from initial, producing steps+1 samples stamped at i*dt. The same
// inputs always produce bit-identical trajectories.
//
// The step size must be positive and the step count at least 1; anything
// else is rejected with an error wrapping phase.ErrInvalidArgument before
// any computation. Integration itself never fails: with an oversized step
// the state leaves float64 range and the trajectory records the NaN/Inf
// values the recurrence produced, inspectable via FirstNonFinite.
func Integrate(p Params, initial phase.State, dt float64, steps int) (*phase.Trajectory, error) {
	r := sim.NewRunner(New(p), integrators.NewEuler())
	result, err := r.Run(context.Background(), initial, sim.Config{Dt: dt, Steps: steps})
	if err != nil {
		return nil, err
	}
	return result.Trajectory, nil
}
