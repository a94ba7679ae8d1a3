package compare

import (
	"fmt"

	"github.com/AndreyAkinshin/simregress/internal/errors"
)

// Check names.
const (
	CheckPresence       = "presence"
	CheckScenarioCounts = "scenario-counts"
	CheckTotals         = "totals"
	CheckDynamics       = "dynamics"
)

// Failure is one violated expectation.
type Failure struct {
	Check      string
	Category   string
	AnalysisID string
	Column     string
	Kind       errors.ErrorKind
	Detail     string
}

func (f Failure) String() string {
	loc := f.Category + "/" + f.AnalysisID
	if f.Column != "" {
		loc += "[" + f.Column + "]"
	}
	return fmt.Sprintf("%s: %s: %s", f.Check, loc, f.Detail)
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name     string
	Failures []Failure
}

// Passed reports whether the check found no failures.
func (r CheckResult) Passed() bool {
	return len(r.Failures) == 0
}

// Report aggregates every check of one comparison run.
type Report struct {
	BaselineTag  string
	CandidateTag string
	Checks       []CheckResult
}

// Passed reports whether every check passed.
func (r *Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed() {
			return false
		}
	}
	return true
}

// FailureCount returns the total number of failures.
func (r *Report) FailureCount() int {
	n := 0
	for _, c := range r.Checks {
		n += len(c.Failures)
	}
	return n
}

// Failed returns the names of the checks that did not pass.
func (r *Report) Failed() []string {
	var names []string
	for _, c := range r.Checks {
		if !c.Passed() {
			names = append(names, c.Name)
		}
	}
	return names
}

// Err returns a value-mismatch error when any check failed.
func (r *Report) Err() error {
	if r.Passed() {
		return nil
	}
	return errors.Mismatch(fmt.Sprintf("%s vs %s: %d failure(s) in %v",
		r.BaselineTag, r.CandidateTag, r.FailureCount(), r.Failed()))
}
