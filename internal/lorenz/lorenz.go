package lorenz

import (
	"math"

	"github.com/phasekit/lorenzlab/internal/phase"
)

// Params holds the three coefficients of the Lorenz flow. A Params value
// is fixed for the duration of a run; variations are expressed as separate
// runs.
type Params struct {
	Sigma float64 `json:"sigma"`
	Rho   float64 `json:"rho"`
	Beta  float64 `json:"beta"`
}

// Classic returns the standard chaotic parameter set (10, 28, 8/3).
func Classic() Params {
	return Params{Sigma: 10.0, Rho: 28.0, Beta: 8.0 / 3.0}
}

// Equilibria returns the fixed points of the flow: always the origin, plus
// the two wing centers (±c, ±c, ρ-1) with c = sqrt(β(ρ-1)) when that root
// is real and nonzero.
func (p Params) Equilibria() []phase.State {
	points := []phase.State{{0, 0, 0}}
	d := p.Beta * (p.Rho - 1)
	if d > 0 {
		c := math.Sqrt(d)
		points = append(points,
			phase.State{c, c, p.Rho - 1},
			phase.State{-c, -c, p.Rho - 1},
		)
	}
	return points
}

// System is the Lorenz vector field. Immutable after construction.
type System struct {
	sigma, rho, beta float64
}

func New(p Params) *System {
	return &System{sigma: p.Sigma, rho: p.Rho, beta: p.Beta}
}

func (l *System) Dim() int { return 3 }

// Derive calculates the Lorenz attractor derivatives.
func (l *System) Derive(s phase.State, _ float64) phase.State {
	return phase.State{l.sigma * (s[1] - s[0]), s[0]*(l.rho-s[2]) - s[1], s[0]*s[1] - l.beta*s[2]}
}

func (l *System) Params() Params {
	return Params{Sigma: l.sigma, Rho: l.rho, Beta: l.beta}
}

// DefaultState is the conventional starting point (1, 1, 1).
func DefaultState() phase.State { return phase.State{1.0, 1.0, 1.0} }
