package scenario_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/adaptsim/internal/metrics"
	"github.com/san-kum/adaptsim/internal/modulation"
	"github.com/san-kum/adaptsim/internal/scenario"
	"github.com/san-kum/adaptsim/internal/seir"
)

func indexAt(out *seir.Output, t float64) int {
	for i, ti := range out.T {
		if ti >= t {
			return i
		}
	}
	return out.Len() - 1
}

var _ = Describe("Scenarios", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("registry", func() {
		It("lists every named scenario", func() {
			Expect(scenario.Names()).To(ContainElements(
				"baseline", "no-delay", "deload-on", "deload-off",
				"constant-stimulus", "microlesion", "stagnation",
			))
		})

		It("rejects unknown names", func() {
			_, err := scenario.Run(ctx, "tapering", nil)
			Expect(err).To(MatchError(scenario.ErrUnknownScenario))
		})

		It("runs every scenario deterministically", func() {
			for _, name := range scenario.Names() {
				a, err := scenario.Run(ctx, name, nil)
				Expect(err).NotTo(HaveOccurred(), name)
				b, err := scenario.Run(ctx, name, nil)
				Expect(err).NotTo(HaveOccurred(), name)
				Expect(a.M).To(Equal(b.M), name)
				Expect(a.R).To(Equal(b.R), name)
				Expect(a.Len()).To(Equal(721), name)
			}
		})

		It("matches the direct entry points", func() {
			viaName, err := scenario.Run(ctx, "baseline", nil)
			Expect(err).NotTo(HaveOccurred())
			direct, err := scenario.Baseline(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(viaName.M).To(Equal(direct.M))
		})
	})

	Describe("parameter handling", func() {
		It("does not mutate the caller's parameters", func() {
			p := seir.DefaultParams()
			before := p
			_, err := scenario.NoDelay(ctx, &p)
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(before))
		})

		It("forces a single fast stage for no-delay", func() {
			out, err := scenario.NoDelay(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Params.K).To(Equal(1))
			Expect(out.Params.Alpha).To(Equal(scenario.NoDelayAlpha))
		})

		It("propagates validation failures", func() {
			p := seir.DefaultParams()
			p.K = 0
			_, err := scenario.Baseline(ctx, &p)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("delay ordering", func() {
		It("peaks no later without the delay chain", func() {
			base, err := scenario.Baseline(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			fast, err := scenario.NoDelay(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			tBase, _ := metrics.TimeToPeak(base.R, base.T)
			tFast, _ := metrics.TimeToPeak(fast.R, fast.T)
			Expect(tFast).To(BeNumerically("<=", tBase))

			i := indexAt(base, 10)
			Expect(fast.R[i]).To(BeNumerically(">", base.R[i]))
		})

		It("delays early adaptation as k grows at fixed mean delay", func() {
			oneStage := seir.DefaultParams()
			oneStage.K = 1
			oneStage.Alpha = 1 / seir.DefaultParams().MeanDelay()

			chain, err := scenario.Baseline(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			single, err := scenario.Baseline(ctx, &oneStage)
			Expect(err).NotTo(HaveOccurred())

			i := indexAt(chain, 10)
			Expect(chain.R[i]).To(BeNumerically("<", single.R[i]))
		})

		It("delays early adaptation as the stage rate drops", func() {
			slow := seir.DefaultParams()
			slow.Alpha = 0.09

			fast, err := scenario.Baseline(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			lagged, err := scenario.Baseline(ctx, &slow)
			Expect(err).NotTo(HaveOccurred())

			i := indexAt(fast, 20)
			Expect(lagged.R[i]).To(BeNumerically("<", fast.R[i]))
		})
	})

	Describe("deload toggle", func() {
		It("differs only from the start of the deload window", func() {
			on, err := scenario.DeloadToggle(ctx, true, nil)
			Expect(err).NotTo(HaveOccurred())
			off, err := scenario.DeloadToggle(ctx, false, nil)
			Expect(err).NotTo(HaveOccurred())

			start := modulation.DefaultDeload().Start
			diverged := false
			for i, t := range on.T {
				if t < start {
					Expect(on.M[i]).To(Equal(off.M[i]), "t=%v", t)
					Expect(on.R[i]).To(Equal(off.R[i]), "t=%v", t)
				} else if on.M[i] != off.M[i] {
					diverged = true
				}
			}
			Expect(diverged).To(BeTrue())
		})

		It("surfaces an invalid window", func() {
			b := scenario.NewBuilder()
			b.Deload.Start, b.Deload.End = 100, 90
			_, err := b.DeloadToggle(ctx, true, nil)
			Expect(err).To(MatchError(modulation.ErrInvalidWindow))

			_, err = b.DeloadToggle(ctx, false, nil)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("microlesion", func() {
		It("matches the baseline before the pulse", func() {
			base, err := scenario.Baseline(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			lesion, err := scenario.Microlesion(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			start := modulation.DefaultMicrolesion().Start
			for i, t := range base.T {
				if t >= start {
					break
				}
				Expect(lesion.M[i]).To(Equal(base.M[i]))
			}
			Expect(lesion.M[lesion.Len()-1]).NotTo(Equal(base.M[base.Len()-1]))
		})

		It("follows the builder's lesion window", func() {
			b := scenario.NewBuilder()
			b.Lesion.Start, b.Lesion.End = 100, 110
			late, err := b.Microlesion(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			base, err := scenario.Baseline(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			for i, t := range base.T {
				if t >= 100 {
					break
				}
				Expect(late.M[i]).To(Equal(base.M[i]))
			}

			b.Lesion.Start, b.Lesion.End = 60, 50
			_, err = b.Microlesion(ctx, nil)
			Expect(err).To(MatchError(modulation.ErrInvalidWindow))
		})
	})

	Describe("stagnation", func() {
		It("leaves more of the population unstimulated", func() {
			base, err := scenario.Baseline(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			stuck, err := scenario.Stagnation(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			last := base.Len() - 1
			Expect(stuck.S[last]).To(BeNumerically(">", base.S[last]))
		})
	})

	Describe("constant stimulus", func() {
		It("defaults the load to the parameter set", func() {
			p := seir.DefaultParams()
			b := scenario.NewBuilder()
			Expect(b.ConstantLoadFor(p)).To(Equal(scenario.ConstantLoad{
				Adherence: p.Adherence, Intensity: p.BlockIntensity, Protein: 1.0,
			}))
		})

		It("adapts more under the high load", func() {
			high, err := scenario.ConstantStimulus(ctx, &scenario.HighLoad, nil)
			Expect(err).NotTo(HaveOccurred())
			low, err := scenario.ConstantStimulus(ctx, &scenario.LowLoad, nil)
			Expect(err).NotTo(HaveOccurred())

			i := indexAt(high, 30)
			Expect(high.R[i]).To(BeNumerically(">", low.R[i]))
		})

		It("uses the builder override", func() {
			b := scenario.NewBuilder()
			b.Constant = &scenario.HighLoad
			viaBuilder, err := b.Run(ctx, "constant-stimulus", nil)
			Expect(err).NotTo(HaveOccurred())
			direct, err := b.Run(ctx, "constant-high", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(viaBuilder.M).To(Equal(direct.M))
		})
	})

	Describe("batch runner", func() {
		It("returns results in input order", func() {
			names := []string{"stagnation", "baseline", "deload-on"}
			results, err := scenario.NewBuilder().RunBatch(ctx, names, nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))

			for i, r := range results {
				Expect(r.Name).To(Equal(names[i]))
				single, err := scenario.Run(ctx, r.Name, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(r.Output.M).To(Equal(single.M))
			}
		})

		It("fails fast on unknown names", func() {
			_, err := scenario.NewBuilder().RunBatch(ctx, []string{"baseline", "nope"}, nil, nil)
			Expect(err).To(MatchError(scenario.ErrUnknownScenario))
		})

		It("honours cancellation", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := scenario.NewBuilder().RunBatch(canceled, []string{"baseline"}, nil, nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("initial override", func() {
		It("starts every run from the builder's stocks", func() {
			b := scenario.NewBuilder()
			b.Initial = &seir.Initial{S: 0.5, I: 0.5, R: 0, M: 2}
			out, err := b.Baseline(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.S[0]).To(Equal(0.5))
			Expect(out.M[0]).To(Equal(2.0))
			Expect(math.IsNaN(out.M[out.Len()-1])).To(BeFalse())
		})
	})
})
