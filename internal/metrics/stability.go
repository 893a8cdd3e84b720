package metrics

import (
	"math"

	"github.com/phasekit/lorenzlab/internal/phase"
)

// Stability reports the fraction of samples that stayed inside a bound.
// Non-finite samples always count as violations.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x phase.State, t float64) {
	s.samples++
	if !x.IsFinite() {
		s.violations++
		return
	}
	for _, val := range x {
		if math.Abs(val) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
