package integrators

import (
	"gonum.org/v1/gonum/floats"

	"github.com/phasekit/lorenzlab/internal/phase"
)

// Heun is the explicit trapezoidal method: a full Euler predictor followed
// by an averaged corrector. Second order, fixed step.
type Heun struct {
	k1, k2  phase.State
	predict phase.State
}

func NewHeun() *Heun {
	return &Heun{}
}

func (h *Heun) ensureScratch(n int) {
	if len(h.k1) != n {
		h.k1 = make(phase.State, n)
		h.k2 = make(phase.State, n)
		h.predict = make(phase.State, n)
	}
}

func (h *Heun) Step(sys phase.System, x phase.State, t float64, dt float64) phase.State {
	n := len(x)
	h.ensureScratch(n)

	k1 := sys.Derive(x, t)
	copy(h.k1, k1)

	floats.AddScaledTo(h.predict, x, dt, h.k1)
	k2 := sys.Derive(h.predict, t+dt)
	copy(h.k2, k2)

	result := make(phase.State, n)
	half := dt * 0.5
	for i := 0; i < n; i++ {
		result[i] = x[i] + half*(h.k1[i]+h.k2[i])
	}

	return result
}
