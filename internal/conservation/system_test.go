package conservation_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hallsim/internal/conservation"
	"github.com/san-kum/hallsim/internal/gas"
)

const tol = 1e-10

func mustContinuity(u, T float64) conservation.ContinuityOnly {
	c, err := conservation.NewContinuityOnly(u, T)
	if err != nil {
		panic(err)
	}
	return c
}

func mustIsothermal(T float64) conservation.IsothermalEuler {
	e, err := conservation.NewIsothermalEuler(T)
	if err != nil {
		panic(err)
	}
	return e
}

func expectPrimitiveClose(got, want conservation.Primitive) {
	ExpectWithOffset(1, got.Density).To(BeNumerically("~", want.Density, tol*math.Max(1, want.Density)))
	ExpectWithOffset(1, got.Velocity).To(BeNumerically("~", want.Velocity, tol*math.Max(1, math.Abs(want.Velocity))))
	ExpectWithOffset(1, got.Temperature).To(BeNumerically("~", want.Temperature, tol*math.Max(1, want.Temperature)))
}

var _ = Describe("System", func() {
	xe := gas.MustSpecies(gas.Xenon, 0)
	xe3 := gas.MustSpecies(gas.Xenon, 3)
	air := gas.MustSpecies(gas.Air, 0)

	Describe("NumConserved", func() {
		It("is fixed by the variant, not its parameters", func() {
			for _, u := range []float64{-500, 0, 300} {
				for _, T := range []float64{1, 500, 1e5} {
					Expect(mustContinuity(u, T).NumConserved()).To(Equal(1))
					Expect(mustIsothermal(T).NumConserved()).To(Equal(2))
				}
			}
			Expect(conservation.EulerEquations{}.NumConserved()).To(Equal(3))
		})
	})

	Describe("construction", func() {
		DescribeTable("rejects non-physical held constants",
			func(build func() error) {
				Expect(build()).To(MatchError(gas.ErrInvalidPhysicalParameter))
			},
			Entry("zero temperature", func() error { _, err := conservation.NewContinuityOnly(300, 0); return err }),
			Entry("NaN velocity", func() error { _, err := conservation.NewContinuityOnly(math.NaN(), 500); return err }),
			Entry("infinite velocity", func() error { _, err := conservation.NewContinuityOnly(math.Inf(1), 500); return err }),
			Entry("negative isothermal temperature", func() error { _, err := conservation.NewIsothermalEuler(-1); return err }),
		)

		It("builds every kind by name", func() {
			for _, name := range []string{"continuity", "isothermal", "euler"} {
				kind, err := conservation.ParseKind(name)
				Expect(err).NotTo(HaveOccurred())
				law, err := conservation.New(kind, 300, 500)
				Expect(err).NotTo(HaveOccurred())
				Expect(law.Kind()).To(Equal(kind))
			}
			_, err := conservation.ParseKind("mhd")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("round trip", func() {
		states := []conservation.Primitive{
			{Density: 1e-6, Velocity: 300, Temperature: 500},
			{Density: 2.5, Velocity: -1200, Temperature: 3000},
			{Density: 1.0, Velocity: 0, Temperature: 1},
			{Density: 1e-12, Velocity: 2e4, Temperature: 1e5},
		}
		laws := []conservation.System{
			mustContinuity(300, 500),
			mustIsothermal(500),
			conservation.EulerEquations{},
		}

		It("recovers every admissible primitive state", func() {
			for _, law := range laws {
				for _, sp := range []gas.Species{xe, xe3, air} {
					for _, p := range states {
						u, err := law.ConservedFromPrimitive(p, sp)
						Expect(err).NotTo(HaveOccurred())
						Expect(u).To(HaveLen(law.NumConserved()))

						back, err := law.PrimitiveFromConserved(u, sp)
						Expect(err).NotTo(HaveOccurred())
						expectPrimitiveClose(back, law.Constrain(p))
					}
				}
			}
		})
	})

	Describe("ContinuityOnly", func() {
		law := mustContinuity(300, 500)

		It("ignores supplied velocity and temperature", func() {
			p := conservation.Primitive{Density: 2e-5, Velocity: -42, Temperature: 9000}

			u, err := law.ConservedFromPrimitive(p, xe)
			Expect(err).NotTo(HaveOccurred())
			Expect(u).To(Equal(conservation.Conserved{2e-5}))

			back, err := law.PrimitiveFromConserved(u, xe)
			Expect(err).NotTo(HaveOccurred())
			Expect(back.Velocity).To(Equal(300.0))
			Expect(back.Temperature).To(Equal(500.0))

			lo, hi, err := law.WaveSpeeds(p, xe)
			Expect(err).NotTo(HaveOccurred())
			Expect(lo).To(Equal(300.0))
			Expect(hi).To(Equal(300.0))

			f, err := law.Flux(u, xe)
			Expect(err).NotTo(HaveOccurred())
			Expect(f[0]).To(BeNumerically("~", 2e-5*300, 1e-18))
		})

		It("allows vacuum", func() {
			u, err := law.ConservedFromPrimitive(conservation.Primitive{}, xe)
			Expect(err).NotTo(HaveOccurred())
			Expect(u[0]).To(BeZero())
		})
	})

	Describe("IsothermalEuler", func() {
		law := mustIsothermal(500)

		It("evolves velocity but holds temperature", func() {
			p := conservation.Primitive{Density: 1e-4, Velocity: 150, Temperature: 20}
			u, err := law.ConservedFromPrimitive(p, xe)
			Expect(err).NotTo(HaveOccurred())
			Expect(u[1]).To(BeNumerically("~", 1e-4*150, 1e-15))

			back, err := law.PrimitiveFromConserved(u, xe)
			Expect(err).NotTo(HaveOccurred())
			Expect(back.Velocity).To(BeNumerically("~", 150, tol))
			Expect(back.Temperature).To(Equal(500.0))
		})

		It("bounds wave speeds with the isothermal sound speed", func() {
			a := math.Sqrt(gas.Xenon.R() * 500)
			lo, hi, err := law.WaveSpeeds(conservation.Primitive{Density: 1, Velocity: 100}, xe)
			Expect(err).NotTo(HaveOccurred())
			Expect(lo).To(BeNumerically("~", 100-a, tol))
			Expect(hi).To(BeNumerically("~", 100+a, tol))
		})

		It("adds pressure to the momentum flux", func() {
			p := conservation.Primitive{Density: 2, Velocity: 10}
			u, _ := law.ConservedFromPrimitive(p, xe)
			f, err := law.Flux(u, xe)
			Expect(err).NotTo(HaveOccurred())
			Expect(f[0]).To(BeNumerically("~", 20, tol))
			Expect(f[1]).To(BeNumerically("~", 2*100+2*gas.Xenon.R()*500, 1e-8))
		})
	})

	Describe("EulerEquations", func() {
		law := conservation.EulerEquations{}

		It("uses the adiabatic sound speed", func() {
			p := conservation.Primitive{Density: 1.2, Velocity: 0, Temperature: 300}
			lo, hi, err := law.WaveSpeeds(p, air)
			Expect(err).NotTo(HaveOccurred())
			Expect(hi).To(BeNumerically("~", 347.2, 0.5))
			Expect(lo).To(BeNumerically("~", -hi, tol))
		})

		It("matches the analytic flux", func() {
			p := conservation.Primitive{Density: 1, Velocity: 2, Temperature: 400}
			u, _ := law.ConservedFromPrimitive(p, air)
			f, err := law.Flux(u, air)
			Expect(err).NotTo(HaveOccurred())
			pressure := p.Pressure(air)
			Expect(f[0]).To(BeNumerically("~", 2, tol))
			Expect(f[1]).To(BeNumerically("~", 4+pressure, 1e-8))
			Expect(f[2]).To(BeNumerically("~", 2*(u[2]+pressure), 1e-6))
		})
	})

	Describe("invalid states", func() {
		laws := []conservation.System{mustContinuity(300, 500), mustIsothermal(500), conservation.EulerEquations{}}

		It("rejects negative density everywhere", func() {
			p := conservation.Primitive{Density: -1, Velocity: 0, Temperature: 300}
			for _, law := range laws {
				_, err := law.ConservedFromPrimitive(p, xe)
				Expect(err).To(MatchError(conservation.ErrInvalidState))

				_, _, err = law.WaveSpeeds(p, xe)
				Expect(err).To(MatchError(conservation.ErrInvalidState))

				u := make(conservation.Conserved, law.NumConserved())
				u[0] = -1
				_, err = law.PrimitiveFromConserved(u, xe)
				Expect(err).To(MatchError(conservation.ErrInvalidState))
			}
		})

		It("rejects conserved vectors of the wrong size", func() {
			for _, law := range laws {
				_, err := law.PrimitiveFromConserved(conservation.Conserved{1, 1, 1, 1}, xe)
				Expect(err).To(MatchError(conservation.ErrInvalidState))
			}
		})

		It("rejects non-positive temperature in the full system", func() {
			_, err := conservation.EulerEquations{}.ConservedFromPrimitive(conservation.Primitive{Density: 1, Temperature: 0}, xe)
			Expect(err).To(MatchError(conservation.ErrInvalidState))

			var se *conservation.StateError
			Expect(err).To(BeAssignableToTypeOf(se))
		})

		It("rejects negative internal energy instead of clamping", func() {
			_, err := conservation.EulerEquations{}.PrimitiveFromConserved(conservation.Conserved{1, 10, 10}, xe)
			Expect(err).To(MatchError(conservation.ErrInvalidState))
		})

		It("rejects vacuum when velocity has to be recovered", func() {
			_, err := mustIsothermal(500).PrimitiveFromConserved(conservation.Conserved{0, 0}, xe)
			Expect(err).To(MatchError(conservation.ErrInvalidState))
		})
	})
})
