package metrics

import "github.com/phasekit/lorenzlab/internal/phase"

// MaxNorm tracks the largest Euclidean norm seen along a trajectory.
type MaxNorm struct {
	name string
	max  float64
}

func NewMaxNorm() *MaxNorm {
	return &MaxNorm{name: "max_norm"}
}

func (m *MaxNorm) Name() string { return m.name }

func (m *MaxNorm) Observe(x phase.State, t float64) {
	if n := x.Norm(); n > m.max {
		m.max = n
	}
}

func (m *MaxNorm) Value() float64 { return m.max }

func (m *MaxNorm) Reset() { m.max = 0 }
