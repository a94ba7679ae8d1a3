package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/simregress/internal/convert"
	"github.com/AndreyAkinshin/simregress/internal/logging"
	"github.com/AndreyAkinshin/simregress/internal/rstat"
)

// rscriptSource returns the R runtime, failing when Rscript is not on PATH.
func rscriptSource(binary string) (rstat.Source, error) {
	r := rstat.NewRScript(binary)
	if err := r.Available(); err != nil {
		return nil, err
	}
	return r, nil
}

func (a *app) newConvertCmd() *cobra.Command {
	var (
		inDir     string
		outDir    string
		pattern   string
		rscript   string
		keepGoing bool
	)

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert statistical data files into tabular artifacts",
		Long: `Convert reads a statistical data file (or every matching file in the input
directory), exports it to CSV through the R runtime, and writes a tabular
artifact to the output directory. The intermediate CSV is removed afterwards.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.cfg.Convert
			if !cmd.Flags().Changed("keep-going") {
				keepGoing = c.KeepGoing
			}

			source, err := a.newSource(firstNonEmpty(rscript, c.RScript))
			if err != nil {
				a.log.Error().Err(err).Msg("statistical runtime unavailable")
				return err
			}

			conv := convert.New(source, convert.Options{
				OutDir:      firstNonEmpty(outDir, c.OutDir),
				Pattern:     firstNonEmpty(pattern, c.Pattern),
				ArtifactExt: a.cfg.Compare.Extension,
				KeepGoing:   keepGoing,
			}, logging.Component(a.log, "convert"))

			var results []convert.Result
			if len(args) == 1 {
				var res convert.Result
				res, err = conv.ConvertFile(cmd.Context(), args[0])
				if err == nil {
					results = append(results, res)
				}
			} else {
				results, err = conv.ConvertDir(cmd.Context(), firstNonEmpty(inDir, c.InDir))
			}

			a.renderConversions(results)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&inDir, "in-dir", "", "directory scanned for input files")
	f.StringVar(&outDir, "out-dir", "", "directory receiving artifacts")
	f.StringVar(&pattern, "pattern", "", "glob selecting input files")
	f.StringVar(&rscript, "rscript", "", "Rscript binary")
	f.BoolVar(&keepGoing, "keep-going", false, "continue with the next file after a failure")
	return cmd
}

func (a *app) renderConversions(results []convert.Result) {
	if len(results) == 0 {
		return
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		a.log.Debug().Msg(r.Describe())
		rows = append(rows, []string{r.Source, r.Artifact, strconv.Itoa(r.Rows), strconv.Itoa(r.Columns)})
	}
	a.out.Section("Converted")
	a.out.Table([]string{"source", "artifact", "rows", "columns"}, rows)
}
