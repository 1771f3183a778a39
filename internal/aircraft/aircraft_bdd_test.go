package aircraft

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/env"
	"github.com/san-kum/fdmsim/internal/input"
)

var _ = Describe("Aircraft", func() {
	var (
		reg *input.Registry
		a   *Aircraft
	)

	BeforeEach(func() {
		reg = input.NewRegistry()
		a = newTestAircraft(GinkgoT(), reg, RoleMass, RoleAerodynamics, RoleLandingGear)
	})

	Context("before Initialize", func() {
		It("refuses to step", func() {
			Expect(a.Step(0.01)).To(MatchError(dynamo.ErrNotInitialized))
		})
	})

	Context("released in still air", func() {
		BeforeEach(func() {
			Expect(a.Initialize(InitialConditions{Altitude: 500})).To(Succeed())
		})

		It("accelerates downward and loses altitude", func() {
			Expect(a.Advance(0.1, 10)).To(Succeed())
			Expect(a.State().Velocity.Z).To(BeNumerically(">", 0))
			Expect(a.State().Altitude()).To(BeNumerically("<", 500))
		})

		It("approaches terminal velocity under drag", func() {
			for i := 0; i < 600; i++ {
				Expect(a.Advance(0.1, 10)).To(Succeed())
				if a.State().Altitude() < 50 {
					break
				}
			}
			// ½·ρ·v²·CdA = m·g along BAS z
			vt := math.Sqrt(2 * 1000 * env.StandardGravity / (1.225 * 4.0))
			Expect(a.State().Velocity.Z).To(BeNumerically("<", vt*1.01))
		})

		It("keeps the attitude quaternion normalized", func() {
			for i := 0; i < 20; i++ {
				Expect(a.Advance(0.1, 10)).To(Succeed())
			}
			q := a.State().Attitude
			n := q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag
			Expect(n).To(BeNumerically("~", 1, 1e-12))
		})
	})

	Context("when fuel drains during flight", func() {
		BeforeEach(func() {
			reg.Set(input.MassChannel("fuel"), 100)
			Expect(a.Initialize(InitialConditions{Altitude: 1000})).To(Succeed())
		})

		It("tracks the input channel each substep", func() {
			Expect(a.Mass().Mass()).To(BeNumerically("~", 1100, 1e-9))
			reg.Set(input.MassChannel("fuel"), 20)
			Expect(a.Advance(0.1, 10)).To(Succeed())
			Expect(a.Mass().Mass()).To(BeNumerically("~", 1020, 1e-9))
		})
	})

	Context("after a reset", func() {
		It("returns to the initial conditions", func() {
			ic := InitialConditions{Altitude: 200, Airspeed: 12, Heading: 90}
			Expect(a.Initialize(ic)).To(Succeed())
			start := a.State()
			for i := 0; i < 5; i++ {
				Expect(a.Advance(0.1, 10)).To(Succeed())
			}
			Expect(a.State()).NotTo(Equal(start))

			Expect(a.Reset()).To(Succeed())
			Expect(a.State()).To(Equal(start))
			Expect(a.Time()).To(BeZero())
			Expect(a.InitialConditions()).To(Equal(ic))
		})
	})
})
