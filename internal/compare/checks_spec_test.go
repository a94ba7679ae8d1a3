package compare_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AndreyAkinshin/simregress/internal/compare"
	"github.com/AndreyAkinshin/simregress/internal/errors"
	"github.com/AndreyAkinshin/simregress/internal/frame"
)

func strCol(name string, vals ...string) *frame.Column {
	cells := make([]any, len(vals))
	for i, v := range vals {
		cells[i] = v
	}
	return &frame.Column{Name: name, Type: frame.TypeString, Values: cells}
}

func floatCol(name string, vals ...float64) *frame.Column {
	cells := make([]any, len(vals))
	for i, v := range vals {
		cells[i] = v
	}
	return &frame.Column{Name: name, Type: frame.TypeFloat, Values: cells}
}

func mustTable(cols ...*frame.Column) *frame.Table {
	t, err := frame.New(cols...)
	Expect(err).NotTo(HaveOccurred())
	return t
}

var _ = Describe("Checker", func() {
	var (
		baseline  compare.FrameSet
		candidate compare.FrameSet
		checker   *compare.Checker
	)

	totals := func(id string) compare.Key { return compare.Key{Category: compare.CategoryTotals, AnalysisID: id} }
	dynamics := func(id string) compare.Key { return compare.Key{Category: compare.CategoryDynamics, AnalysisID: id} }

	BeforeEach(func() {
		baseline = compare.FrameSet{}
		candidate = compare.FrameSet{}
		checker = compare.NewChecker(&compare.Sets{Baseline: baseline, Candidate: candidate})
	})

	Describe("presence", func() {
		It("passes when every baseline key has a counterpart", func() {
			tbl := mustTable(floatCol("total", 1))
			baseline.Put(totals("1"), tbl)
			candidate.Put(totals("1"), tbl)

			Expect(checker.Presence().Passed()).To(BeTrue())
		})

		It("reports the missing key", func() {
			baseline.Put(totals("5"), mustTable(floatCol("total")))

			res := checker.Presence()
			Expect(res.Failures).To(HaveLen(1))
			Expect(res.Failures[0].Category).To(Equal(compare.CategoryTotals))
			Expect(res.Failures[0].AnalysisID).To(Equal("5"))
			Expect(res.Failures[0].Kind).To(Equal(errors.KindMissingCounterpart))
		})

		It("ignores keys only present in the candidate", func() {
			candidate.Put(totals("9"), mustTable(floatCol("total", 1)))

			Expect(checker.Presence().Passed()).To(BeTrue())
		})
	})

	Describe("scenario counts", func() {
		BeforeEach(func() {
			baseline.Put(dynamics("1"), mustTable(strCol("scenario", "A", "A", "B")))
		})

		It("fails when a baseline scenario count differs", func() {
			candidate.Put(dynamics("1"), mustTable(strCol("scenario", "A", "A", "B", "B")))

			res := checker.ScenarioCounts()
			Expect(res.Passed()).To(BeFalse())
			Expect(res.Failures[0].Detail).To(ContainSubstring("scenario B"))
			Expect(res.Failures[0].Kind).To(Equal(errors.KindValueMismatch))
		})

		It("ignores scenarios only present in the candidate", func() {
			candidate.Put(dynamics("1"), mustTable(strCol("scenario", "A", "A", "B", "C")))

			Expect(checker.ScenarioCounts().Passed()).To(BeTrue())
		})

		It("does not depend on row order", func() {
			candidate.Put(dynamics("1"), mustTable(strCol("scenario", "B", "A", "A")))

			Expect(checker.ScenarioCounts().Passed()).To(BeTrue())
		})

		It("fails when the scenario column is missing", func() {
			candidate.Put(dynamics("1"), mustTable(floatCol("value", 1, 2, 3)))

			res := checker.ScenarioCounts()
			Expect(res.Failures).To(HaveLen(1))
			Expect(res.Failures[0].Detail).To(ContainSubstring("missing in candidate"))
		})

		It("skips the R0 totals table", func() {
			baseline.Put(totals("5"), mustTable(strCol("scenario")))
			candidate.Put(dynamics("1"), mustTable(strCol("scenario", "A", "A", "B")))

			Expect(checker.ScenarioCounts().Passed()).To(BeTrue())
		})
	})

	Describe("totals", func() {
		It("compares the total column in order", func() {
			baseline.Put(totals("1"), mustTable(floatCol("total", 1, 2, 3)))
			candidate.Put(totals("1"), mustTable(floatCol("total", 3, 2, 1)))

			res := checker.Totals()
			Expect(res.Failures).To(HaveLen(1))
			Expect(res.Failures[0].Column).To(Equal("total"))
		})

		It("skips analysis 5 even when its counterpart is absent", func() {
			baseline.Put(totals("5"), mustTable(floatCol("total")))

			Expect(checker.Totals().Passed()).To(BeTrue())
		})

		It("reports an absent counterpart as a missing counterpart", func() {
			baseline.Put(totals("2"), mustTable(floatCol("total", 1)))

			res := checker.Totals()
			Expect(res.Failures).To(HaveLen(1))
			Expect(res.Failures[0].Kind).To(Equal(errors.KindMissingCounterpart))
		})
	})

	Describe("dynamics", func() {
		It("compares R0 for analysis 5", func() {
			baseline.Put(dynamics("5"), mustTable(floatCol("R0", 1.1, 1.2), floatCol("value", 7, 7)))
			candidate.Put(dynamics("5"), mustTable(floatCol("R0", 1.1, 1.3), floatCol("value", 7, 7)))

			res := checker.Dynamics()
			Expect(res.Failures).To(HaveLen(1))
			Expect(res.Failures[0].Column).To(Equal("R0"))
		})

		It("ignores value for analysis 5", func() {
			baseline.Put(dynamics("5"), mustTable(floatCol("R0", 1.1), floatCol("value", 1)))
			candidate.Put(dynamics("5"), mustTable(floatCol("R0", 1.1), floatCol("value", 2)))

			Expect(checker.Dynamics().Passed()).To(BeTrue())
		})

		It("fails for analysis 5 when only value is present", func() {
			baseline.Put(dynamics("5"), mustTable(floatCol("value", 1)))
			candidate.Put(dynamics("5"), mustTable(floatCol("value", 1)))

			res := checker.Dynamics()
			Expect(res.Failures).To(HaveLen(1))
			Expect(res.Failures[0].Column).To(Equal("R0"))
			Expect(res.Failures[0].Detail).To(ContainSubstring("missing on both sides"))
		})

		It("compares value for other analyses", func() {
			baseline.Put(dynamics("1"), mustTable(floatCol("value", 1, 2, 3)))
			candidate.Put(dynamics("1"), mustTable(floatCol("value", 1, 2, 4)))

			res := checker.Dynamics()
			Expect(res.Failures).To(HaveLen(1))
			Expect(res.Failures[0].Detail).To(ContainSubstring("row 2"))
		})
	})

	Describe("fail fast", func() {
		BeforeEach(func() {
			for _, id := range []string{"1", "2", "3"} {
				baseline.Put(totals(id), mustTable(floatCol("total", 1)))
			}
		})

		It("stops each check at its first failure by default", func() {
			Expect(checker.Presence().Failures).To(HaveLen(1))
		})

		It("collects every failure when disabled", func() {
			checker.FailFast = false
			Expect(checker.Presence().Failures).To(HaveLen(3))
		})
	})

	Describe("Run", func() {
		It("runs every check even after an earlier failure", func() {
			baseline.Put(totals("1"), mustTable(floatCol("total", 1)))
			baseline.Put(dynamics("1"), mustTable(floatCol("value", 1)))
			candidate.Put(dynamics("1"), mustTable(floatCol("value", 2)))

			report := checker.Run("master", "test")
			Expect(report.Checks).To(HaveLen(4))
			Expect(report.Failed()).To(ConsistOf("presence", "scenario-counts", "totals", "dynamics"))
			Expect(report.FailureCount()).To(Equal(4))
			Expect(errors.Is(report.Err(), errors.KindValueMismatch)).To(BeTrue())
		})
	})
})
