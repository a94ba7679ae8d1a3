package cli

import (
	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/simregress/internal/compare"
	"github.com/AndreyAkinshin/simregress/internal/config"
	"github.com/AndreyAkinshin/simregress/internal/errors"
	"github.com/AndreyAkinshin/simregress/internal/history"
	"github.com/AndreyAkinshin/simregress/internal/logging"
)

func (a *app) newCompareCmd() *cobra.Command {
	var (
		dataDir      string
		baselineTag  string
		candidateTag string
		collectAll   bool
		record       bool
		db           string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare candidate artifacts against the baseline",
		Long: `Compare discovers every baseline artifact in the data directory, derives the
candidate counterpart by swapping the tag in its name, and runs the presence,
scenario-counts, totals and dynamics checks. Use --candidate-tag @branch to
compare against artifacts tagged with the current git branch.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := a.cfg.Compare
			ctx := cmd.Context()
			log := logging.Component(a.log, "compare")

			baseTag := firstNonEmpty(baselineTag, cc.BaselineTag)
			candTag := firstNonEmpty(candidateTag, cc.CandidateTag)
			if candTag == config.BranchTag {
				branch, err := a.branch(ctx, a.workDir)
				if err != nil {
					log.Error().Err(err).Msg("cannot resolve candidate tag from git")
					return err
				}
				candTag = branchTag(branch)
				log.Info().Str("branch", branch).Str("tag", candTag).Msg("using current git branch as candidate tag")
			}
			if err := config.ValidateTag("baseline tag", baseTag); err != nil {
				return errors.Config(err.Error())
			}
			if err := config.ValidateTag("candidate tag", candTag); err != nil {
				return errors.Config(err.Error())
			}

			sets, err := compare.Build(compare.BuildOptions{
				Dir:          firstNonEmpty(dataDir, cc.DataDir),
				BaselineTag:  baseTag,
				CandidateTag: candTag,
				Ext:          cc.Extension,
				Categories:   cc.Categories,
			}, compare.DirLister{}, compare.ArtifactLoader, log)
			if err != nil {
				return err
			}

			checker := newChecker(sets, cc)
			if collectAll {
				checker.FailFast = false
			}
			report := checker.Run(baseTag, candTag)
			for _, c := range report.Checks {
				for _, f := range c.Failures {
					log.Error().Str("check", f.Check).Str("category", f.Category).Str("analysis", f.AnalysisID).
						Str("column", f.Column).Stringer("kind", f.Kind).Msg(f.Detail)
				}
			}
			a.renderReport(report)

			if record {
				if err := a.recordRun(cmd, report, firstNonEmpty(db, a.cfg.History.Database)); err != nil {
					return err
				}
			}
			return report.Err()
		},
	}

	f := cmd.Flags()
	f.StringVar(&dataDir, "data-dir", "", "directory searched recursively for artifacts")
	f.StringVar(&baselineTag, "baseline-tag", "", "tag of the reference artifacts")
	f.StringVar(&candidateTag, "candidate-tag", "", `tag of the artifacts under test ("@branch" for the current git branch)`)
	f.BoolVar(&collectAll, "collect-all", false, "report every failure instead of stopping each check at the first")
	f.BoolVar(&record, "record", false, "store the report in the run history")
	f.StringVar(&db, "db", "", "run history database")
	return cmd
}

// newChecker applies the comparison settings of cc to a checker over sets.
func newChecker(sets *compare.Sets, cc *config.CompareConfig) *compare.Checker {
	checker := compare.NewChecker(sets)
	checker.FailFast = *cc.FailFast
	checker.Comparison = compare.ComparisonConfig{
		FloatTolerance: cc.Comparison.FloatTolerance,
		ToleranceMode:  cc.Comparison.ToleranceMode,
		NaNEqualsNaN:   *cc.Comparison.NaNEqualsNaN,
	}
	checker.Overrides = overrides(cc)
	return checker
}

// overrides returns the built-in exception table extended by cc.
func overrides(cc *config.CompareConfig) compare.Overrides {
	extra := make(compare.Overrides, len(cc.Overrides))
	for id, ov := range cc.Overrides {
		extra[id] = compare.Override{Skip: ov.Skip, ValueColumn: ov.ValueColumn}
	}
	return compare.DefaultOverrides().Merge(extra)
}

func (a *app) recordRun(cmd *cobra.Command, report *compare.Report, path string) error {
	store, err := history.Open(path)
	if err != nil {
		a.log.Error().Err(err).Str("database", path).Msg("failed to open run history")
		return errors.Wrap(err, "open run history")
	}
	defer store.Close()

	id, err := store.Record(cmd.Context(), report, a.now())
	if err != nil {
		a.log.Error().Err(err).Msg("failed to record run")
		return errors.Wrap(err, "record run")
	}
	a.log.Info().Int64("run", id).Str("database", path).Msg("run recorded")
	return nil
}
