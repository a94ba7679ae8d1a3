package cli

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/simregress/internal/compare"
)

func (a *app) renderReport(r *compare.Report) {
	title := cases.Title(language.English)

	a.out.SummaryHeader(fmt.Sprintf("Comparison: %s vs %s", r.BaselineTag, r.CandidateTag))
	for _, c := range r.Checks {
		detail := ""
		if n := len(c.Failures); n == 1 {
			detail = "1 failure"
		} else if n > 1 {
			detail = fmt.Sprintf("%d failures", n)
		}
		a.out.SummaryAction(title.String(c.Name), c.Passed(), detail)
	}

	if r.Passed() {
		a.out.FinalSuccess("All %d checks passed.", len(r.Checks))
		return
	}

	rows := make([][]string, 0, r.FailureCount())
	for _, c := range r.Checks {
		for _, f := range c.Failures {
			rows = append(rows, []string{
				title.String(f.Check),
				f.Category + "/" + f.AnalysisID,
				f.Column,
				f.Kind.String(),
				f.Detail,
			})
		}
	}
	a.out.Println("")
	a.out.Table([]string{"check", "table", "column", "kind", "detail"}, rows)
	a.out.FinalFailure("%d of %d checks failed.", len(r.Failed()), len(r.Checks))
}
