package phase

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsFinite reports whether every component is a finite float64.
func (s State) IsFinite() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	return floats.Norm(s, 2)
}

// Sub returns s - other. Both states must have the same length.
func (s State) Sub(other State) State {
	result := make(State, len(s))
	floats.SubTo(result, s, other)
	return result
}

// Distance returns the Euclidean distance to other.
func (s State) Distance(other State) float64 {
	return floats.Distance(s, other, 2)
}

// System is an autonomous ODE: dX/dt = f(X). Derive must not mutate x and
// must return a fresh vector of Dim() components.
type System interface {
	Derive(x State, t float64) State
	Dim() int
}

// Stepper advances a state by one fixed step. Implementations may keep
// scratch buffers between calls and are not safe for concurrent use.
type Stepper interface {
	Step(sys System, x State, t, dt float64) State
}

type Observer interface {
	OnStep(x State, t float64)
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}
