package cli

import (
	"context"
	"os"

	"github.com/awnumar/memguard"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/charlieverse/diary/internal/diary"
	"github.com/charlieverse/diary/internal/files"
	"github.com/charlieverse/diary/internal/logging"
)

// rootOptions carries persistent flags and the lazily built app shared by
// every subcommand of one invocation.
type rootOptions struct {
	configPath string
	open       bool
	timeRecord bool
	verbose    bool

	managerOpts []files.Option
	writerOpts  []diary.WriterOption

	logger *log.Logger
	app    *app
}

// NewRootCommand creates the top-level Cobra command hosting every diary subcommand.
func NewRootCommand(ctx context.Context) *cobra.Command {
	return newRootCommand(ctx, &rootOptions{})
}

func newRootCommand(ctx context.Context, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diary",
		Short: "Append timestamped Begin/Stop/Mark entries to a daily diary file.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logger = logging.New(cmd.ErrOrStderr(), opts.verbose)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.afterCommand(ctx, cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to the configuration file (default: $HOME/.diary.conf.json)")
	flags.BoolVar(&opts.open, "open", false, "Open today's diary in the editor after the command")
	flags.BoolVar(&opts.timeRecord, "time-record", false, "Print the last two weeks of timestamps after the command")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newCreateConfigCommand(opts),
		newVersionCommand(),
		newActionCommand(ctx, opts, diary.ActionBegin),
		newActionCommand(ctx, opts, diary.ActionStop),
		newActionCommand(ctx, opts, diary.ActionMark),
		newOpenCommand(ctx, opts),
		newTimestampsCommand(ctx, opts),
		newShellCommand(ctx, opts),
	)

	return cmd
}

// afterCommand honours --open and --time-record once a diary command has run.
func (o *rootOptions) afterCommand(ctx context.Context, cmd *cobra.Command) error {
	if o.app == nil {
		return nil
	}
	if o.open && cmd.Name() != "o" {
		if err := o.app.Open(ctx, 0); err != nil {
			return err
		}
	}
	if o.timeRecord {
		report, err := o.app.Report(ctx, diary.DefaultReportDays)
		if err != nil {
			return err
		}
		report.Log(o.logger)
	}
	return nil
}

// ExecuteCommand is a thin wrapper that executes the Cobra root command.
func ExecuteCommand(ctx context.Context) error {
	defer memguard.Purge()
	return NewRootCommand(ctx).Execute()
}

// Main is a helper used by cmd/diary/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	if err := ExecuteCommand(ctx); err != nil {
		logging.New(os.Stderr, false).Error(err)
		os.Exit(1)
	}
}
