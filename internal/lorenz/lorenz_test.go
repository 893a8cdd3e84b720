package lorenz_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phasekit/lorenzlab/internal/lorenz"
	"github.com/phasekit/lorenzlab/internal/phase"
)

var _ = Describe("Params", func() {
	Describe("Classic", func() {
		It("returns the standard chaotic coefficients", func() {
			p := lorenz.Classic()
			Expect(p.Sigma).To(Equal(10.0))
			Expect(p.Rho).To(Equal(28.0))
			Expect(p.Beta).To(Equal(8.0 / 3.0))
		})
	})

	Describe("Equilibria", func() {
		It("returns the origin and both wing centers for the classic set", func() {
			p := lorenz.Classic()
			points := p.Equilibria()
			Expect(points).To(HaveLen(3))
			Expect(points[0]).To(Equal(phase.State{0, 0, 0}))

			c := math.Sqrt(p.Beta * (p.Rho - 1))
			Expect(points[1]).To(Equal(phase.State{c, c, p.Rho - 1}))
			Expect(points[2]).To(Equal(phase.State{-c, -c, p.Rho - 1}))
		})

		It("returns only the origin below the pitchfork", func() {
			p := lorenz.Params{Sigma: 10, Rho: 0.5, Beta: 8.0 / 3.0}
			Expect(p.Equilibria()).To(HaveLen(1))
		})

		It("returns only the origin at rho = 1", func() {
			p := lorenz.Params{Sigma: 10, Rho: 1.0, Beta: 8.0 / 3.0}
			Expect(p.Equilibria()).To(HaveLen(1))
		})
	})
})

var _ = Describe("System", func() {
	It("has dimension 3", func() {
		Expect(lorenz.New(lorenz.Classic()).Dim()).To(Equal(3))
	})

	It("evaluates the vector field at (1,1,1)", func() {
		sys := lorenz.New(lorenz.Classic())
		d := sys.Derive(phase.State{1, 1, 1}, 0)
		Expect(d[0]).To(Equal(0.0))
		Expect(d[1]).To(Equal(26.0))
		Expect(d[2]).To(BeNumerically("~", 1.0-8.0/3.0, 1e-15))
	})

	It("does not mutate its input", func() {
		sys := lorenz.New(lorenz.Classic())
		x := phase.State{1, 2, 3}
		sys.Derive(x, 0)
		Expect(x).To(Equal(phase.State{1, 2, 3}))
	})

	It("round-trips its parameters", func() {
		p := lorenz.Params{Sigma: 9, Rho: 20, Beta: 2}
		Expect(lorenz.New(p).Params()).To(Equal(p))
	})

	It("starts at (1,1,1) by convention", func() {
		Expect(lorenz.DefaultState()).To(Equal(phase.State{1.0, 1.0, 1.0}))
	})
})

var _ = Describe("Integrate", func() {
	var p lorenz.Params

	BeforeEach(func() {
		p = lorenz.Classic()
	})

	It("rejects non-positive step sizes", func() {
		_, err := lorenz.Integrate(p, lorenz.DefaultState(), 0.0, 100)
		Expect(err).To(MatchError(phase.ErrInvalidArgument))

		_, err = lorenz.Integrate(p, lorenz.DefaultState(), -0.01, 100)
		Expect(err).To(MatchError(phase.ErrInvalidArgument))
	})

	It("rejects a NaN step size", func() {
		_, err := lorenz.Integrate(p, lorenz.DefaultState(), math.NaN(), 100)
		Expect(err).To(MatchError(phase.ErrInvalidArgument))
	})

	It("rejects step counts below 1", func() {
		_, err := lorenz.Integrate(p, lorenz.DefaultState(), 0.01, 0)
		Expect(err).To(MatchError(phase.ErrInvalidArgument))

		_, err = lorenz.Integrate(p, lorenz.DefaultState(), 0.01, -5)
		Expect(err).To(MatchError(phase.ErrInvalidArgument))
	})

	It("rejects initial states of the wrong dimension", func() {
		_, err := lorenz.Integrate(p, phase.State{1, 1}, 0.01, 100)
		Expect(err).To(MatchError(phase.ErrDimension))
	})

	It("produces steps+1 samples stamped at i*dt", func() {
		tr, err := lorenz.Integrate(p, lorenz.DefaultState(), 0.01, 100)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Len()).To(Equal(101))
		for i := 0; i < tr.Len(); i++ {
			Expect(tr.Times[i]).To(Equal(float64(i) * 0.01))
		}
	})

	It("records the initial condition unchanged and unaliased", func() {
		initial := phase.State{0.5, -0.25, 12.0}
		tr, err := lorenz.Integrate(p, initial, 0.01, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Initial()).To(Equal(phase.State{0.5, -0.25, 12.0}))

		initial[0] = 999.0
		Expect(tr.Initial()[0]).To(Equal(0.5))
	})

	It("is deterministic", func() {
		a, err := lorenz.Integrate(p, lorenz.DefaultState(), 0.01, 500)
		Expect(err).NotTo(HaveOccurred())
		b, err := lorenz.Integrate(p, lorenz.DefaultState(), 0.01, 500)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.States).To(Equal(b.States))
		Expect(a.Times).To(Equal(b.Times))
	})

	It("satisfies the forward Euler recurrence", func() {
		dt := 0.01
		tr, err := lorenz.Integrate(p, lorenz.DefaultState(), dt, 200)
		Expect(err).NotTo(HaveOccurred())

		sys := lorenz.New(p)
		for _, i := range []int{0, 1, 50, 199} {
			d := sys.Derive(tr.At(i), tr.Time(i))
			for j := 0; j < 3; j++ {
				Expect(tr.At(i + 1)[j]).To(BeNumerically("~", tr.At(i)[j]+dt*d[j], 1e-12))
			}
		}
	})

	It("matches the hand-computed first step from (0.1, 0.1, 0.1)", func() {
		tr, err := lorenz.Integrate(p, phase.State{0.1, 0.1, 0.1}, 0.01, 1)
		Expect(err).NotTo(HaveOccurred())

		x1 := tr.At(1)
		Expect(x1[0]).To(Equal(0.1))
		Expect(x1[1]).To(BeNumerically("~", 0.1269, 1e-12))
		Expect(x1[2]).To(BeNumerically("~", 0.09743333333333333, 1e-12))
	})

	It("amplifies a tiny perturbation by orders of magnitude", func() {
		d0 := 1e-5
		base := phase.State{0.1, 0.1, 0.1}
		a, err := lorenz.Integrate(p, base, 0.01, 4000)
		Expect(err).NotTo(HaveOccurred())

		shifted := base.Clone()
		shifted[0] += d0
		b, err := lorenz.Integrate(p, shifted, 0.01, 4000)
		Expect(err).NotTo(HaveOccurred())

		maxSep := 0.0
		for i := 0; i < a.Len(); i++ {
			if s := a.At(i).Distance(b.At(i)); s > maxSep {
				maxSep = s
			}
		}
		Expect(maxSep).To(BeNumerically(">", 1e3*d0))
	})

	It("records non-finite states instead of failing", func() {
		tr, err := lorenz.Integrate(p, lorenz.DefaultState(), 100.0, 12)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Len()).To(Equal(13))

		idx := tr.FirstNonFinite()
		Expect(idx).To(BeNumerically(">", 0))
		Expect(tr.IsFinite()).To(BeFalse())

		// the overflow time stamps stay exact
		for i := 0; i < tr.Len(); i++ {
			Expect(tr.Times[i]).To(Equal(float64(i) * 100.0))
		}
	})
})
