package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/simregress/internal/errors"
	"github.com/AndreyAkinshin/simregress/internal/history"
)

// DefaultHistoryLimit is the number of runs listed by default.
const DefaultHistoryLimit = 20

func (a *app) newHistoryCmd() *cobra.Command {
	var (
		db    string
		limit int
		run   int64
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded comparison runs",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := firstNonEmpty(db, a.cfg.History.Database)
			store, err := history.Open(path)
			if err != nil {
				a.log.Error().Err(err).Str("database", path).Msg("failed to open run history")
				return errors.Wrap(err, "open run history")
			}
			defer store.Close()

			if run > 0 {
				return a.showRun(cmd, store, run)
			}

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return errors.Wrap(err, "list runs")
			}
			if len(runs) == 0 {
				a.out.Info("No runs recorded in %s.", path)
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				result := "passed"
				if !r.Passed {
					result = "failed"
				}
				rows = append(rows, []string{
					strconv.FormatInt(r.ID, 10),
					r.RecordedAt.Local().Format(time.DateTime),
					r.BaselineTag,
					r.CandidateTag,
					result,
					strconv.Itoa(r.FailureCount),
				})
			}
			a.out.Table([]string{"run", "recorded", "baseline", "candidate", "result", "failures"}, rows)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&db, "db", "", "run history database")
	f.IntVar(&limit, "limit", DefaultHistoryLimit, "number of runs to list (0 for all)")
	f.Int64Var(&run, "run", 0, "show the failures recorded for one run")
	return cmd
}

func (a *app) showRun(cmd *cobra.Command, store *history.Store, id int64) error {
	failures, err := store.Failures(cmd.Context(), id)
	if err != nil {
		return errors.Wrap(err, "list failures")
	}
	if len(failures) == 0 {
		a.out.Info("Run %d has no recorded failures.", id)
		return nil
	}

	rows := make([][]string, 0, len(failures))
	for _, f := range failures {
		rows = append(rows, []string{f.Check, f.Category + "/" + f.AnalysisID, f.Column, f.Kind, f.Detail})
	}
	a.out.Table([]string{"check", "table", "column", "kind", "detail"}, rows)
	return nil
}
