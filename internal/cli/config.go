package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/simregress/internal/config"
	"github.com/AndreyAkinshin/simregress/internal/errors"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate " + config.FileName,
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			return a.validateConfig()
		},
	})
	return cmd
}

// validateConfig reports on the configuration loaded by setup, which has
// already rejected invalid files.
func (a *app) validateConfig() error {
	if a.cfgFile == "" {
		return errors.Config("no " + config.FileName + " found in the working directory or any parent")
	}

	cc := a.cfg.Compare
	a.out.ValidationSuccess("Configuration is valid.")
	a.out.SummaryItem("File", a.cfgFile)
	a.out.SummaryItem("Tags", fmt.Sprintf("%s → %s", cc.BaselineTag, cc.CandidateTag))
	a.out.SummaryItem("Data", cc.DataDir)
	a.out.SummaryItem("Categories", strings.Join(cc.Categories, ", "))
	a.out.SummaryItem("Overrides", strconv.Itoa(len(overrides(cc))))
	return nil
}
