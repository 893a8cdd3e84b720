package analysis_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phasekit/lorenzlab/internal/analysis"
	"github.com/phasekit/lorenzlab/internal/integrators"
	"github.com/phasekit/lorenzlab/internal/lorenz"
	"github.com/phasekit/lorenzlab/internal/phase"
)

// flat builds an n-point one-dimensional trajectory pinned at value.
func flat(value, dt float64, n int) *phase.Trajectory {
	tr := &phase.Trajectory{
		States: make([]phase.State, n),
		Times:  make([]float64, n),
	}
	for i := range tr.States {
		tr.States[i] = phase.State{value}
		tr.Times[i] = float64(i) * dt
	}
	return tr
}

// exponential builds a trajectory separating from zero as d0*e^(lambda*t).
func exponential(d0, lambda, dt float64, n int) *phase.Trajectory {
	tr := &phase.Trajectory{
		States: make([]phase.State, n),
		Times:  make([]float64, n),
	}
	for i := range tr.States {
		t := float64(i) * dt
		tr.States[i] = phase.State{d0 * math.Exp(lambda*t)}
		tr.Times[i] = t
	}
	return tr
}

var _ = Describe("Separation", func() {
	It("is zero for identical trajectories", func() {
		a := flat(1.5, 0.01, 50)
		b := flat(1.5, 0.01, 50)

		sep, err := analysis.Separation(a, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(sep).To(HaveLen(50))
		for _, s := range sep {
			Expect(s).To(Equal(0.0))
		}
	})

	It("returns pointwise Euclidean distances", func() {
		a := &phase.Trajectory{
			States: []phase.State{{0, 0}, {1, 1}},
			Times:  []float64{0, 0.01},
		}
		b := &phase.Trajectory{
			States: []phase.State{{3, 4}, {4, 5}},
			Times:  []float64{0, 0.01},
		}

		sep, err := analysis.Separation(a, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(sep).To(Equal([]float64{5.0, 5.0}))
	})

	It("rejects trajectories of different shapes", func() {
		a := flat(0, 0.01, 10)
		b := flat(0, 0.01, 11)

		_, err := analysis.Separation(a, b)
		Expect(err).To(MatchError(phase.ErrDimension))
	})
})

var _ = Describe("Diverge", func() {
	It("summarizes an exponentially separating pair", func() {
		lambda := 1.0
		d0 := 1e-6
		dt := 0.01
		n := 1001

		a := flat(0, dt, n)
		b := exponential(d0, lambda, dt, n)

		div, err := analysis.Diverge(a, b, 100.0)
		Expect(err).NotTo(HaveOccurred())

		Expect(div.Initial).To(Equal(d0))
		Expect(div.Final).To(BeNumerically("~", d0*math.Exp(lambda*10.0), 1e-9))
		Expect(div.Max).To(Equal(div.Final))
		Expect(div.Growth).To(BeNumerically("~", math.Exp(lambda*10.0), 1e-3))

		// first sample at or past 100x the initial separation
		wantCross := -1
		for i := 0; i < n; i++ {
			if b.States[i][0] >= 100.0*d0 {
				wantCross = i
				break
			}
		}
		Expect(div.CrossIndex).To(Equal(wantCross))

		Expect(div.Lambda).To(BeNumerically("~", lambda, 1e-6))
	})

	It("reports no crossing when separation stays flat", func() {
		a := flat(0, 0.01, 100)
		b := flat(1e-6, 0.01, 100)

		div, err := analysis.Diverge(a, b, 1000.0)
		Expect(err).NotTo(HaveOccurred())
		Expect(div.CrossIndex).To(Equal(-1))
		Expect(div.Growth).To(BeNumerically("~", 1.0, 1e-12))
	})

	It("handles coincident starts without dividing by zero", func() {
		a := flat(0, 0.01, 100)
		b := exponential(1e-6, 1.0, 0.01, 100)
		b.States[0][0] = 0

		div, err := analysis.Diverge(a, b, 1000.0)
		Expect(err).NotTo(HaveOccurred())
		Expect(div.Initial).To(Equal(0.0))
		Expect(div.Growth).To(Equal(0.0))
		Expect(div.CrossIndex).To(Equal(-1))
	})

	It("rejects empty trajectories", func() {
		_, err := analysis.Diverge(&phase.Trajectory{}, &phase.Trajectory{}, 10.0)
		Expect(err).To(MatchError(phase.ErrInvalidArgument))
	})
})

var _ = Describe("LargestLyapunov", func() {
	newEuler := func() phase.Stepper { return integrators.NewEuler() }

	It("is positive for the classic chaotic flow", func() {
		sys := lorenz.New(lorenz.Classic())
		lambda := analysis.LargestLyapunov(sys, newEuler, lorenz.DefaultState(), 0.01, 5000, 1e-6)
		Expect(lambda).To(BeNumerically(">", 0.3))
		Expect(lambda).To(BeNumerically("<", 2.0))
	})

	It("is negative when the origin attracts everything", func() {
		sys := lorenz.New(lorenz.Params{Sigma: 10, Rho: 0.5, Beta: 8.0 / 3.0})
		lambda := analysis.LargestLyapunov(sys, newEuler, lorenz.DefaultState(), 0.01, 5000, 1e-6)
		Expect(lambda).To(BeNumerically("<", 0.0))
	})

	It("returns zero for degenerate arguments", func() {
		sys := lorenz.New(lorenz.Classic())
		Expect(analysis.LargestLyapunov(sys, newEuler, phase.State{}, 0.01, 100, 1e-6)).To(Equal(0.0))
		Expect(analysis.LargestLyapunov(sys, newEuler, lorenz.DefaultState(), 0.01, 100, 0)).To(Equal(0.0))
		Expect(analysis.LargestLyapunov(sys, newEuler, lorenz.DefaultState(), 0, 100, 1e-6)).To(Equal(0.0))
		Expect(analysis.LargestLyapunov(sys, newEuler, lorenz.DefaultState(), 0.01, 0, 1e-6)).To(Equal(0.0))
	})
})
