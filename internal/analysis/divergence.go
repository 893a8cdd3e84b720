package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/phasekit/lorenzlab/internal/phase"
)

// Separation returns the pointwise Euclidean distance between two
// trajectories of the same shape.
func Separation(a, b *phase.Trajectory) ([]float64, error) {
	if a.Len() != b.Len() || a.Dim() != b.Dim() {
		return nil, fmt.Errorf("%w: trajectories have shapes %dx%d and %dx%d",
			phase.ErrDimension, a.Len(), a.Dim(), b.Len(), b.Dim())
	}
	sep := make([]float64, a.Len())
	for i := range sep {
		sep[i] = a.At(i).Distance(b.At(i))
	}
	return sep, nil
}

// Divergence summarizes how two nearby trajectories separate over time.
type Divergence struct {
	Initial float64 // separation at t=0
	Final   float64
	Max     float64

	// Growth is Final/Initial, or 0 when the initial separation is 0.
	Growth float64

	// CrossIndex is the first sample where separation reaches factor times
	// the initial separation, -1 if it never does.
	CrossIndex int

	// Lambda is the slope of ln(separation) against time over the window
	// before separation saturates at the attractor scale. Positive values
	// mean exponential divergence.
	Lambda float64
}

// Diverge compares two trajectories of the same shape. The factor sets the
// CrossIndex threshold relative to the initial separation.
func Diverge(a, b *phase.Trajectory, factor float64) (*Divergence, error) {
	sep, err := Separation(a, b)
	if err != nil {
		return nil, err
	}
	if len(sep) == 0 {
		return nil, fmt.Errorf("%w: empty trajectories", phase.ErrInvalidArgument)
	}

	d := &Divergence{
		Initial:    sep[0],
		Final:      sep[len(sep)-1],
		CrossIndex: -1,
	}

	for i, s := range sep {
		if s > d.Max {
			d.Max = s
		}
		if d.CrossIndex < 0 && d.Initial > 0 && s >= factor*d.Initial {
			d.CrossIndex = i
		}
	}

	if d.Initial > 0 {
		d.Growth = d.Final / d.Initial
	}
	d.Lambda = lambdaFit(sep, b.Times)

	return d, nil
}

// lambdaFit estimates the exponential rate from the slope of ln(sep) vs
// time. Only the pre-saturation window counts: once separation reaches the
// attractor scale the log-series flattens and would drag the slope down.
func lambdaFit(sep, times []float64) float64 {
	max := 0.0
	for _, s := range sep {
		if s > max {
			max = s
		}
	}
	if max == 0 {
		return 0
	}
	cutoff := 0.1 * max

	var ts, logs []float64
	for i, s := range sep {
		if s <= 0 || math.IsInf(s, 0) || math.IsNaN(s) {
			continue
		}
		if s > cutoff && len(logs) >= minFitPoints {
			break
		}
		ts = append(ts, times[i])
		logs = append(logs, math.Log(s))
	}
	if len(logs) < minFitPoints {
		return 0
	}

	_, slope := stat.LinearRegression(ts, logs, nil, false)
	return slope
}

const minFitPoints = 8
