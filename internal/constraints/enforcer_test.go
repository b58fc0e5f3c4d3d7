package constraints_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tensim/internal/constraints"
	"github.com/san-kum/tensim/internal/tensegrity"
)

var _ = Describe("Enforcer", func() {
	var (
		sys  *tensegrity.System
		a, b *tensegrity.Node
	)

	addNodes := func(p1, p2 tensegrity.Vector, opts1 ...tensegrity.NodeOption) {
		var err error
		a, err = sys.AddNode(p1, opts1...)
		Expect(err).NotTo(HaveOccurred())
		b, err = sys.AddNode(p2)
		Expect(err).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		sys = tensegrity.New(tensegrity.WithGravity(tensegrity.Vector{0, 0, 0}))
	})

	Describe("cables", func() {
		It("pushes a compressed cable back to its rest length", func() {
			addNodes(tensegrity.Vector{0, 0, 0}, tensegrity.Vector{0.5, 0, 0})
			c, err := sys.AddCable(a, b, tensegrity.WithRestLength(1), tensegrity.WithDamping(0))
			Expect(err).NotTo(HaveOccurred())

			constraints.New(sys).Enforce()

			Expect(c.Length()).To(BeNumerically("~", 1.0, 1e-12))
			Expect(a.Position[0]).To(BeNumerically("~", -0.25, 1e-12))
			Expect(b.Position[0]).To(BeNumerically("~", 0.75, 1e-12))
		})

		It("gives the whole correction to the only free endpoint", func() {
			addNodes(tensegrity.Vector{0, 0, 0}, tensegrity.Vector{0.5, 0, 0}, tensegrity.Fixed())
			_, err := sys.AddCable(a, b, tensegrity.WithRestLength(1), tensegrity.WithDamping(0))
			Expect(err).NotTo(HaveOccurred())

			constraints.New(sys).Enforce()

			Expect(a.Position).To(Equal(tensegrity.Vector{0, 0, 0}))
			Expect(b.Position[0]).To(BeNumerically("~", 1.0, 1e-12))
		})

		It("caps tension by pulling the endpoints together", func() {
			addNodes(tensegrity.Vector{0, 0, 0}, tensegrity.Vector{1.5, 0, 0})
			c, err := sys.AddCable(a, b, tensegrity.WithRestLength(1), tensegrity.WithStiffness(100))
			Expect(err).NotTo(HaveOccurred())

			constraints.New(sys, constraints.WithMaxTension(10)).Enforce()

			Expect(c.Length()).To(BeNumerically("~", 1.1, 1e-12))
			Expect(c.Force()).To(BeNumerically("~", 10, 1e-9))
		})
	})

	Describe("struts", func() {
		It("pulls a stretched strut back to its rest length", func() {
			addNodes(tensegrity.Vector{0, 0, 0}, tensegrity.Vector{1.4, 0, 0})
			s, err := sys.AddStrut(a, b, tensegrity.WithRestLength(1))
			Expect(err).NotTo(HaveOccurred())

			constraints.New(sys).Enforce()

			Expect(s.Length()).To(BeNumerically("~", 1.0, 1e-12))
			Expect(a.Position[0]).To(BeNumerically("~", 0.2, 1e-12))
		})

		It("caps compression by pushing the endpoints apart", func() {
			addNodes(tensegrity.Vector{0, 0, 0}, tensegrity.Vector{0.5, 0, 0})
			s, err := sys.AddStrut(a, b, tensegrity.WithRestLength(1), tensegrity.WithStiffness(100))
			Expect(err).NotTo(HaveOccurred())

			constraints.New(sys, constraints.WithMaxCompression(10)).Enforce()

			Expect(s.Length()).To(BeNumerically("~", 0.9, 1e-12))
			Expect(s.Force()).To(BeNumerically("~", -10, 1e-9))
		})

		It("never moves two fixed endpoints", func() {
			addNodes(tensegrity.Vector{0, 0, 0}, tensegrity.Vector{3, 0, 0}, tensegrity.Fixed())
			b.Fixed = true
			_, err := sys.AddStrut(a, b, tensegrity.WithRestLength(1))
			Expect(err).NotTo(HaveOccurred())

			constraints.New(sys).Enforce()

			Expect(a.Position).To(Equal(tensegrity.Vector{0, 0, 0}))
			Expect(b.Position).To(Equal(tensegrity.Vector{3, 0, 0}))
		})
	})

	Describe("velocities", func() {
		It("clamps speed to the configured maximum", func() {
			n, err := sys.AddNode(tensegrity.Vector{0, 0, 0})
			Expect(err).NotTo(HaveOccurred())
			n.Velocity = tensegrity.Vector{3, 4, 0}

			constraints.New(sys).Enforce()

			Expect(n.Velocity[0]).To(BeNumerically("~", 0.6, 1e-12))
			Expect(n.Velocity[1]).To(BeNumerically("~", 0.8, 1e-12))
		})

		It("leaves fixed nodes alone", func() {
			n, err := sys.AddNode(tensegrity.Vector{0, 0, 0}, tensegrity.Fixed())
			Expect(err).NotTo(HaveOccurred())
			n.Velocity = tensegrity.Vector{3, 4, 0}

			constraints.New(sys).Enforce()

			Expect(n.Velocity).To(Equal(tensegrity.Vector{3, 4, 0}))
		})
	})

	Describe("force balance", func() {
		It("nudges velocity against an unbalanced force", func() {
			heavy := tensegrity.New()
			n, err := heavy.AddNode(tensegrity.Vector{0, 0, 0}, tensegrity.WithMass(2))
			Expect(err).NotTo(HaveOccurred())

			constraints.New(heavy).Enforce()

			Expect(n.Velocity[2]).To(BeNumerically("~", tensegrity.StandardGravity*0.1, 1e-12))
		})

		It("reports stability only when every free node is balanced", func() {
			addNodes(tensegrity.Vector{0, 0, 0}, tensegrity.Vector{1, 0, 0}, tensegrity.Fixed())
			c, err := sys.AddCable(a, b, tensegrity.WithRestLength(1))
			Expect(err).NotTo(HaveOccurred())

			e := constraints.New(sys)
			Expect(e.IsStable()).To(BeTrue())

			c.RestLength = 0.9
			Expect(e.IsStable()).To(BeFalse())

			b.Fixed = true
			Expect(e.IsStable()).To(BeTrue())
		})
	})

	Describe("strain energy distribution", func() {
		It("lists only elements that carry load", func() {
			n0, _ := sys.AddNode(tensegrity.Vector{0, 0, 0})
			n1, _ := sys.AddNode(tensegrity.Vector{1, 0, 0})
			n2, _ := sys.AddNode(tensegrity.Vector{1, 1, 0})
			_, _ = sys.AddCable(n0, n1, tensegrity.WithRestLength(0.8), tensegrity.WithStiffness(10))
			_, _ = sys.AddCable(n1, n2, tensegrity.WithRestLength(2))
			_, _ = sys.AddStrut(n0, n2, tensegrity.WithRestLength(2), tensegrity.WithStiffness(4))
			_, _ = sys.AddStrut(n0, n1, tensegrity.WithRestLength(0.5))

			d := constraints.New(sys).StrainEnergyDistribution()

			Expect(d.Cables).To(HaveLen(1))
			Expect(d.Cables[0]).To(BeNumerically("~", 0.5*10*0.04, 1e-12))
			Expect(d.Struts).To(HaveLen(1))
			Expect(d.Struts[0]).To(BeNumerically("~", 0.5*4*(2-1.4142135623730951)*(2-1.4142135623730951), 1e-12))
		})

		It("is empty for an unloaded system", func() {
			d := constraints.New(sys).StrainEnergyDistribution()
			Expect(d.Cables).To(BeEmpty())
			Expect(d.Struts).To(BeEmpty())
		})
	})
})
