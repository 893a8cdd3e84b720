package analysis

import (
	"math"

	"github.com/phasekit/lorenzlab/internal/phase"
)

// LargestLyapunov estimates the largest Lyapunov exponent using the
// trajectory separation method. A positive value indicates chaos.
//
// Algorithm:
// 1. Run two trajectories started d0 apart
// 2. After every step, measure their separation and rescale the companion
//    back to distance d0 along the current offset
// 3. λ ≈ Σ ln(sep/d0) / (N*dt)
//
// The factory supplies a fresh stepper per trajectory; steppers carry
// scratch state.
func LargestLyapunov(sys phase.System, newStepper func() phase.Stepper, x0 phase.State, dt float64, steps int, d0 float64) float64 {
	if len(x0) == 0 || d0 <= 0 || dt <= 0 || steps < 1 {
		return 0
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += d0

	sa := newStepper()
	sb := newStepper()

	sumLog := 0.0
	count := 0

	for i := 0; i < steps; i++ {
		t := float64(i) * dt
		x = sa.Step(sys, x, t, dt)
		xp = sb.Step(sys, xp, t, dt)

		sep := x.Distance(xp)
		if sep <= 0 || math.IsInf(sep, 0) || math.IsNaN(sep) {
			continue
		}

		sumLog += math.Log(sep / d0)
		count++

		// rescale so the pair stays in the linear regime
		scale := d0 / sep
		for j := range xp {
			xp[j] = x[j] + (xp[j]-x[j])*scale
		}
	}

	if count == 0 {
		return 0
	}

	return sumLog / (float64(count) * dt)
}
