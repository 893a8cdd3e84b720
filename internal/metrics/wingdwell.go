package metrics

import "github.com/phasekit/lorenzlab/internal/phase"

// WingDwell measures the fraction of samples spent on the x > 0 wing of
// the butterfly. Values near 0.5 mean the orbit keeps switching lobes.
type WingDwell struct {
	name     string
	positive int
	samples  int
}

func NewWingDwell() *WingDwell {
	return &WingDwell{name: "wing_dwell"}
}

func (w *WingDwell) Name() string { return w.name }

func (w *WingDwell) Observe(x phase.State, t float64) {
	w.samples++
	if len(x) > 0 && x[0] > 0 {
		w.positive++
	}
}

func (w *WingDwell) Value() float64 {
	if w.samples == 0 {
		return 0
	}
	return float64(w.positive) / float64(w.samples)
}

func (w *WingDwell) Reset() {
	w.positive = 0
	w.samples = 0
}
