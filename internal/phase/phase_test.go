package phase_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phasekit/lorenzlab/internal/phase"
)

var _ = Describe("State", func() {
	Describe("Clone", func() {
		It("copies the components", func() {
			s := phase.State{1.0, 2.0, 3.0}
			c := s.Clone()
			Expect(c).To(Equal(s))
		})

		It("does not share backing memory", func() {
			s := phase.State{1.0, 2.0, 3.0}
			c := s.Clone()
			c[0] = 99.0
			Expect(s[0]).To(Equal(1.0))
		})
	})

	Describe("IsFinite", func() {
		It("accepts ordinary values", func() {
			Expect(phase.State{1.0, -2.5, 0.0}.IsFinite()).To(BeTrue())
		})

		It("rejects NaN", func() {
			Expect(phase.State{1.0, math.NaN(), 0.0}.IsFinite()).To(BeFalse())
		})

		It("rejects infinities of either sign", func() {
			Expect(phase.State{math.Inf(1), 0.0}.IsFinite()).To(BeFalse())
			Expect(phase.State{math.Inf(-1), 0.0}.IsFinite()).To(BeFalse())
		})

		It("accepts the empty state", func() {
			Expect(phase.State{}.IsFinite()).To(BeTrue())
		})
	})

	Describe("Norm", func() {
		It("returns the Euclidean norm", func() {
			Expect(phase.State{3.0, 4.0}.Norm()).To(Equal(5.0))
		})

		It("is zero at the origin", func() {
			Expect(phase.State{0.0, 0.0, 0.0}.Norm()).To(Equal(0.0))
		})
	})

	Describe("Sub", func() {
		It("subtracts componentwise", func() {
			a := phase.State{3.0, 5.0, 7.0}
			b := phase.State{1.0, 1.0, 2.0}
			Expect(a.Sub(b)).To(Equal(phase.State{2.0, 4.0, 5.0}))
		})

		It("leaves its operands alone", func() {
			a := phase.State{3.0, 5.0}
			b := phase.State{1.0, 1.0}
			a.Sub(b)
			Expect(a).To(Equal(phase.State{3.0, 5.0}))
			Expect(b).To(Equal(phase.State{1.0, 1.0}))
		})
	})

	Describe("Distance", func() {
		It("returns the Euclidean distance", func() {
			a := phase.State{0.0, 0.0}
			b := phase.State{3.0, 4.0}
			Expect(a.Distance(b)).To(Equal(5.0))
		})

		It("is zero for identical states", func() {
			a := phase.State{1.5, -2.5, 0.25}
			Expect(a.Distance(a)).To(Equal(0.0))
		})
	})
})

var _ = Describe("Trajectory", func() {
	var tr *phase.Trajectory

	BeforeEach(func() {
		tr = &phase.Trajectory{
			States: []phase.State{
				{1.0, 1.0, 1.0},
				{1.0, 1.26, 0.98},
				{1.026, 1.5021, 0.96186},
			},
			Times: []float64{0.0, 0.01, 0.02},
		}
	})

	It("reports length and dimension", func() {
		Expect(tr.Len()).To(Equal(3))
		Expect(tr.Dim()).To(Equal(3))
	})

	It("reports zero dimension when empty", func() {
		empty := &phase.Trajectory{}
		Expect(empty.Len()).To(Equal(0))
		Expect(empty.Dim()).To(Equal(0))
	})

	It("indexes states and times together", func() {
		Expect(tr.At(1)).To(Equal(phase.State{1.0, 1.26, 0.98}))
		Expect(tr.Time(1)).To(Equal(0.01))
	})

	It("exposes the endpoints", func() {
		Expect(tr.Initial()).To(Equal(phase.State{1.0, 1.0, 1.0}))
		Expect(tr.Final()).To(Equal(phase.State{1.026, 1.5021, 0.96186}))
	})

	Describe("Component", func() {
		It("extracts one coordinate as a series", func() {
			Expect(tr.Component(0)).To(Equal([]float64{1.0, 1.0, 1.026}))
			Expect(tr.Component(2)).To(Equal([]float64{1.0, 0.98, 0.96186}))
		})
	})

	Describe("Prefix", func() {
		It("returns the first n points", func() {
			p := tr.Prefix(2)
			Expect(p.Len()).To(Equal(2))
			Expect(p.Final()).To(Equal(tr.At(1)))
		})

		It("clamps n to the length", func() {
			Expect(tr.Prefix(10).Len()).To(Equal(3))
		})

		It("clamps negative n to an empty prefix", func() {
			Expect(tr.Prefix(-2).Len()).To(Equal(0))
		})

		It("shares the backing arrays", func() {
			p := tr.Prefix(2)
			tr.States[1][0] = 42.0
			Expect(p.At(1)[0]).To(Equal(42.0))
		})
	})

	Describe("FirstNonFinite", func() {
		It("returns -1 for a finite trajectory", func() {
			Expect(tr.FirstNonFinite()).To(Equal(-1))
			Expect(tr.IsFinite()).To(BeTrue())
		})

		It("finds the first NaN state", func() {
			tr.States[1] = phase.State{1.0, math.NaN(), 0.98}
			Expect(tr.FirstNonFinite()).To(Equal(1))
			Expect(tr.IsFinite()).To(BeFalse())
		})

		It("finds the first infinite state", func() {
			tr.States[2] = phase.State{math.Inf(1), 0.0, 0.0}
			Expect(tr.FirstNonFinite()).To(Equal(2))
		})
	})
})
