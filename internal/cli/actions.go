package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/charlieverse/diary/internal/diary"
)

func newActionCommand(ctx context.Context, opts *rootOptions, action diary.Action) *cobra.Command {
	return &cobra.Command{
		Use:     action.Letter(),
		Aliases: []string{strings.ToLower(action.Word())},
		Short:   fmt.Sprintf("Append \"%s <time> <host>\" to today's diary.", action.Word()),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.loadApp(cmd, opts.logger)
			if err != nil {
				return err
			}

			entry, err := a.Append(ctx, action)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), entry.Line())
			return nil
		},
	}
}

func newOpenCommand(ctx context.Context, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "o [offset]",
		Aliases: []string{"open"},
		Short:   "Open the diary from offset days ago (default today) in the editor.",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			offset := 0
			if len(args) == 1 {
				var err error
				if offset, err = parseCount(args[0]); err != nil {
					return fmt.Errorf("parse offset: %w", err)
				}
			}

			a, err := opts.loadApp(cmd, opts.logger)
			if err != nil {
				return err
			}
			return a.Open(ctx, offset)
		},
	}
}

func newTimestampsCommand(ctx context.Context, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "timestamps [days]",
		Aliases: []string{"timerecord"},
		Short:   fmt.Sprintf("Print Begin/Stop/Mark lines from the last days (default %d).", diary.DefaultReportDays),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days := diary.DefaultReportDays
			if len(args) == 1 {
				var err error
				if days, err = parseCount(args[0]); err != nil {
					return fmt.Errorf("parse days: %w", err)
				}
			}

			a, err := opts.loadApp(cmd, opts.logger)
			if err != nil {
				return err
			}
			report, err := a.Report(ctx, days)
			if err != nil {
				return err
			}
			report.Log(opts.logger)
			return nil
		},
	}
}

func parseCount(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", diary.ErrInvalidOffset, n)
	}
	return n, nil
}
