package phase

// Trajectory holds the ordered samples of one integration run. States[0]
// is the initial condition and Times[i] is exactly i times the step size.
// A trajectory is not mutated after creation.
type Trajectory struct {
	States []State
	Times  []float64
}

func (tr *Trajectory) Len() int { return len(tr.States) }

func (tr *Trajectory) Dim() int {
	if len(tr.States) == 0 {
		return 0
	}
	return len(tr.States[0])
}

func (tr *Trajectory) At(i int) State { return tr.States[i] }

func (tr *Trajectory) Time(i int) float64 { return tr.Times[i] }

func (tr *Trajectory) Initial() State { return tr.States[0] }

func (tr *Trajectory) Final() State { return tr.States[len(tr.States)-1] }

// Component extracts one coordinate as a series, e.g. every x value.
func (tr *Trajectory) Component(idx int) []float64 {
	out := make([]float64, len(tr.States))
	for i, s := range tr.States {
		out[i] = s[idx]
	}
	return out
}

// Prefix returns the first n points as a trajectory sharing the receiver's
// backing arrays. Consumers that process a run incrementally take growing
// prefixes instead of re-copying samples. n is clamped to [0, Len()].
func (tr *Trajectory) Prefix(n int) *Trajectory {
	if n < 0 {
		n = 0
	}
	if n > len(tr.States) {
		n = len(tr.States)
	}
	return &Trajectory{States: tr.States[:n], Times: tr.Times[:n]}
}

// FirstNonFinite returns the index of the first state containing NaN or
// an infinity, or -1 if every state is finite. Non-finite states are data,
// not errors: they record where the recurrence left float64 range.
func (tr *Trajectory) FirstNonFinite() int {
	for i, s := range tr.States {
		if !s.IsFinite() {
			return i
		}
	}
	return -1
}

func (tr *Trajectory) IsFinite() bool { return tr.FirstNonFinite() == -1 }
