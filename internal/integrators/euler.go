package integrators

import (
	"gonum.org/v1/gonum/floats"

	"github.com/phasekit/lorenzlab/internal/phase"
)

// Euler is the explicit first-order method: x[i+1] = x[i] + dt*f(x[i]).
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys phase.System, x phase.State, t float64, dt float64) phase.State {
	dx := sys.Derive(x, t)
	result := make(phase.State, len(x))
	floats.AddScaledTo(result, x, dt, dx)
	return result
}
