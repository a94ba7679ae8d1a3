// Package compare loads a baseline and a candidate set of tabular artifacts
// and runs consistency checks between corresponding tables.
package compare

import (
	"sort"
	"strconv"

	"github.com/AndreyAkinshin/simregress/internal/frame"
)

// Output categories.
const (
	CategoryDynamics = "dynamics"
	CategoryTotals   = "totals"
)

// Column names consulted by the checks.
const (
	ScenarioColumn = "scenario"
	TotalColumn    = "total"
	ValueColumn    = "value"
)

// DefaultCategories is the category set accepted during discovery.
var DefaultCategories = []string{CategoryDynamics, CategoryTotals}

// Key identifies one table within a frame set.
type Key struct {
	Category   string
	AnalysisID string
}

func (k Key) String() string {
	return k.Category + "/" + k.AnalysisID
}

// FrameSet maps category → analysis id → table.
type FrameSet map[string]map[string]*frame.Table

// Put stores a table under key.
func (s FrameSet) Put(key Key, t *frame.Table) {
	ids, ok := s[key.Category]
	if !ok {
		ids = make(map[string]*frame.Table)
		s[key.Category] = ids
	}
	ids[key.AnalysisID] = t
}

// Get returns the table stored under key.
func (s FrameSet) Get(key Key) (*frame.Table, bool) {
	t, ok := s[key.Category][key.AnalysisID]
	return t, ok
}

// Len returns the number of tables.
func (s FrameSet) Len() int {
	n := 0
	for _, ids := range s {
		n += len(ids)
	}
	return n
}

// Categories returns the categories in sorted order.
func (s FrameSet) Categories() []string {
	cats := make([]string, 0, len(s))
	for c := range s {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// AnalysisIDs returns the ids of a category, numeric ids in numeric order.
func (s FrameSet) AnalysisIDs(category string) []string {
	ids := make([]string, 0, len(s[category]))
	for id := range s[category] {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// Keys returns every key, ordered by category then analysis id.
func (s FrameSet) Keys() []Key {
	var keys []Key
	for _, c := range s.Categories() {
		for _, id := range s.AnalysisIDs(c) {
			keys = append(keys, Key{Category: c, AnalysisID: id})
		}
	}
	return keys
}

func sortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
}

// Override holds the exceptions declared for one analysis id.
type Override struct {
	Skip        []string // Categories excluded from count and totals checks
	ValueColumn string   // Column compared by the dynamics check
}

// Overrides maps analysis id → exceptions.
type Overrides map[string]Override

// R0AnalysisID is the R0-estimation mode. Its totals table is legitimately
// empty and its dynamics table carries R0 instead of value.
const R0AnalysisID = "5"

// DefaultOverrides returns the built-in exception table.
func DefaultOverrides() Overrides {
	return Overrides{
		R0AnalysisID: {Skip: []string{CategoryTotals}, ValueColumn: "R0"},
	}
}

// Merge returns the built-in table extended with extra. Entries in extra
// add to, but never remove, built-in skips.
func (o Overrides) Merge(extra Overrides) Overrides {
	merged := make(Overrides, len(o)+len(extra))
	for id, ov := range o {
		merged[id] = Override{Skip: append([]string(nil), ov.Skip...), ValueColumn: ov.ValueColumn}
	}
	for id, ov := range extra {
		cur := merged[id]
		for _, c := range ov.Skip {
			if !contains(cur.Skip, c) {
				cur.Skip = append(cur.Skip, c)
			}
		}
		if ov.ValueColumn != "" && cur.ValueColumn == "" {
			cur.ValueColumn = ov.ValueColumn
		}
		merged[id] = cur
	}
	return merged
}

// Skips reports whether key is excluded from the count and totals checks.
func (o Overrides) Skips(key Key) bool {
	return contains(o[key.AnalysisID].Skip, key.Category)
}

// ValueColumnFor returns the column compared by the dynamics check.
func (o Overrides) ValueColumnFor(analysisID string) string {
	if col := o[analysisID].ValueColumn; col != "" {
		return col
	}
	return ValueColumn
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
