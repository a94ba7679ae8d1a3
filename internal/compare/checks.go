package compare

import (
	"fmt"

	"github.com/AndreyAkinshin/simregress/internal/errors"
	"github.com/AndreyAkinshin/simregress/internal/frame"
)

// Checker runs the consistency checks over two loaded frame sets.
type Checker struct {
	Baseline   FrameSet
	Candidate  FrameSet
	Overrides  Overrides
	Comparison ComparisonConfig
	FailFast   bool // Stop each check at its first failure
}

// NewChecker returns a Checker over sets with the built-in overrides,
// exact comparison and fail-fast enabled.
func NewChecker(sets *Sets) *Checker {
	return &Checker{
		Baseline:   sets.Baseline,
		Candidate:  sets.Candidate,
		Overrides:  DefaultOverrides(),
		Comparison: DefaultComparisonConfig(),
		FailFast:   true,
	}
}

// Run executes every check in order. A failing check never prevents the
// following ones from running.
func (c *Checker) Run(baselineTag, candidateTag string) *Report {
	return &Report{
		BaselineTag:  baselineTag,
		CandidateTag: candidateTag,
		Checks: []CheckResult{
			c.Presence(),
			c.ScenarioCounts(),
			c.Totals(),
			c.Dynamics(),
		},
	}
}

// collector accumulates failures for one check and honors FailFast.
type collector struct {
	result   CheckResult
	failFast bool
}

func (c *Checker) newCollector(name string) *collector {
	return &collector{result: CheckResult{Name: name}, failFast: c.FailFast}
}

// add records a failure and reports whether the check should continue.
func (col *collector) add(f Failure) bool {
	f.Check = col.result.Name
	col.result.Failures = append(col.result.Failures, f)
	return !col.failFast
}

func (col *collector) missing(key Key) bool {
	return col.add(Failure{
		Category:   key.Category,
		AnalysisID: key.AnalysisID,
		Kind:       errors.KindMissingCounterpart,
		Detail:     "no candidate counterpart",
	})
}

func (col *collector) mismatch(key Key, column, detail string) bool {
	return col.add(Failure{
		Category:   key.Category,
		AnalysisID: key.AnalysisID,
		Column:     column,
		Kind:       errors.KindValueMismatch,
		Detail:     detail,
	})
}

// Presence requires every baseline table to have a candidate counterpart.
func (c *Checker) Presence() CheckResult {
	col := c.newCollector(CheckPresence)
	for _, key := range c.Baseline.Keys() {
		if _, ok := c.Candidate.Get(key); !ok {
			if !col.missing(key) {
				break
			}
		}
	}
	return col.result
}

// ScenarioCounts requires every scenario value in a baseline table to occur
// equally often in the candidate table. Values present only in the
// candidate are ignored.
func (c *Checker) ScenarioCounts() CheckResult {
	col := c.newCollector(CheckScenarioCounts)
	for _, key := range c.Baseline.Keys() {
		if c.Overrides.Skips(key) {
			continue
		}
		if !c.scenarioCounts(col, key) {
			break
		}
	}
	return col.result
}

func (c *Checker) scenarioCounts(col *collector, key Key) bool {
	base, _ := c.Baseline.Get(key)
	cand, ok := c.Candidate.Get(key)
	if !ok {
		return col.missing(key)
	}

	baseCol, candCol, detail := columnPair(base, cand, ScenarioColumn)
	if detail != "" {
		return col.mismatch(key, ScenarioColumn, detail)
	}

	baseCounts, order := countValues(baseCol.Values)
	candCounts, _ := countValues(candCol.Values)
	for _, v := range order {
		if baseCounts[v] != candCounts[v] {
			d := fmt.Sprintf("scenario %s: baseline %d rows, candidate %d rows", v, baseCounts[v], candCounts[v])
			if !col.mismatch(key, ScenarioColumn, d) {
				return false
			}
		}
	}
	return true
}

// Totals requires the ordered total column of every totals table to match.
func (c *Checker) Totals() CheckResult {
	col := c.newCollector(CheckTotals)
	for _, id := range c.Baseline.AnalysisIDs(CategoryTotals) {
		key := Key{Category: CategoryTotals, AnalysisID: id}
		if c.Overrides.Skips(key) {
			continue
		}
		if !c.sequence(col, key, TotalColumn) {
			break
		}
	}
	return col.result
}

// Dynamics requires the ordered designated column of every dynamics table
// to match.
func (c *Checker) Dynamics() CheckResult {
	col := c.newCollector(CheckDynamics)
	for _, id := range c.Baseline.AnalysisIDs(CategoryDynamics) {
		key := Key{Category: CategoryDynamics, AnalysisID: id}
		if !c.sequence(col, key, c.Overrides.ValueColumnFor(id)) {
			break
		}
	}
	return col.result
}

func (c *Checker) sequence(col *collector, key Key, column string) bool {
	base, _ := c.Baseline.Get(key)
	cand, ok := c.Candidate.Get(key)
	if !ok {
		return col.missing(key)
	}

	baseCol, candCol, detail := columnPair(base, cand, column)
	if detail != "" {
		return col.mismatch(key, column, detail)
	}
	if equal, d := EqualSequences(baseCol.Values, candCol.Values, c.Comparison); !equal {
		return col.mismatch(key, column, d)
	}
	return true
}

// columnPair looks up name on both sides. A non-empty detail describes which
// side lacks the column.
func columnPair(base, cand *frame.Table, name string) (*frame.Column, *frame.Column, string) {
	b, okB := base.Column(name)
	c, okC := cand.Column(name)
	switch {
	case !okB && !okC:
		return nil, nil, fmt.Sprintf("column %q missing on both sides", name)
	case !okB:
		return nil, nil, fmt.Sprintf("column %q missing in baseline", name)
	case !okC:
		return nil, nil, fmt.Sprintf("column %q missing in candidate", name)
	}
	return b, c, ""
}

// countValues returns a multiset of formatted cells and the order in which
// distinct values first appear.
func countValues(values []any) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		s := frame.FormatValue(v)
		if counts[s] == 0 {
			order = append(order, s)
		}
		counts[s]++
	}
	return counts, order
}
