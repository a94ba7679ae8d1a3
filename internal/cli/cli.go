// Package cli provides the simregress command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/simregress/internal/config"
	"github.com/AndreyAkinshin/simregress/internal/errors"
	"github.com/AndreyAkinshin/simregress/internal/logging"
	"github.com/AndreyAkinshin/simregress/internal/output"
	"github.com/AndreyAkinshin/simregress/internal/rstat"
)

// Version is set at build time.
var Version = "dev"

// app carries the state shared by all commands of one invocation.
type app struct {
	out    *output.Writer
	logOut io.Writer

	// Directory where the config search starts and git runs; empty means
	// the working directory.
	workDir string

	newSource func(binary string) (rstat.Source, error)
	branch    func(ctx context.Context, dir string) (string, error)
	now       func() time.Time

	// Global flags.
	configPath string
	logLevel   string
	quiet      bool

	// Set by setup.
	cfg     *config.Config
	cfgFile string
	log     zerolog.Logger
}

func newApp(stdout, stderr io.Writer, color bool) *app {
	return &app{
		out:       output.NewWithWriters(stdout, stderr, color),
		logOut:    stderr,
		newSource: rscriptSource,
		branch:    currentBranch,
		now:       time.Now,
		log:       zerolog.Nop(),
	}
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp(os.Stdout, os.Stderr, false)
	a.out = output.New()
	return a.run(ctx, args)
}

func (a *app) run(ctx context.Context, args []string) int {
	root := a.newRootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return errors.ExitSuccess
	}

	a.out.ErrorPrefix("%v", err)
	var e *errors.Error
	if !stderrors.As(err, &e) {
		// Only cobra's own parsing produces untyped errors.
		return errors.ExitConfigError
	}
	return errors.GetExitCode(err)
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "simregress",
		Short: "Regression testing for epidemic simulation outputs",
		Long: `simregress converts simulation outputs saved by the statistical runtime into
tabular artifacts and compares a baseline set of artifacts against a
candidate set produced by the code under test.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              usageArgs(cobra.NoArgs),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup(cmd) },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(a.out.Stdout())
	root.SetErr(a.out.Stderr())
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Config(err.Error())
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to "+config.FileName+" (default: search upward from the working directory)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "minimal output (errors only)")

	root.AddCommand(
		a.newConvertCmd(),
		a.newCompareCmd(),
		a.newHistoryCmd(),
		a.newConfigCmd(),
		a.newVersionCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger. Flags override
// config values.
func (a *app) setup(cmd *cobra.Command) error {
	a.out.SetQuiet(a.quiet)

	if err := a.loadConfig(); err != nil {
		return err
	}

	level := a.cfg.LogLevel
	switch {
	case cmd.Flags().Changed("log-level"):
		level = a.logLevel
	case a.quiet:
		level = "error"
	}
	a.log = logging.New(level, a.logOut)
	if a.cfgFile != "" {
		a.log.Debug().Str("config", a.cfgFile).Msg("configuration loaded")
	}
	return nil
}

func (a *app) loadConfig() error {
	path := a.configPath
	if path == "" {
		found, err := a.findConfig()
		if stderrors.Is(err, config.ErrNotFound) {
			a.cfg = config.Default()
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "search for "+config.FileName)
		}
		path = found
	}

	cfg, warnings, err := config.LoadAndValidate(path)
	for _, w := range warnings {
		a.out.Warning("%s", w)
	}
	if err != nil {
		return &errors.Error{Kind: errors.KindConfig, Message: "invalid configuration", Path: path, Cause: err}
	}
	a.cfg, a.cfgFile = cfg, path
	return nil
}

func (a *app) findConfig() (string, error) {
	if a.workDir != "" {
		return config.FindFrom(a.workDir)
	}
	return config.Find()
}

// usageArgs turns an argument validator's error into a config error.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return errors.Config(err.Error())
		}
		return nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
