package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlieverse/diary/internal/logging"
	"github.com/charlieverse/diary/internal/shell"
	"github.com/charlieverse/diary/internal/ui"
)

func newShellCommand(ctx context.Context, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "c",
		Aliases: []string{"shell"},
		Short:   "Start the interactive diary shell.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if isTerminal(cmd.InOrStdin()) && isTerminal(cmd.OutOrStdout()) {
				return runTUI(ctx, cmd, opts)
			}

			a, err := opts.loadApp(cmd, opts.logger)
			if err != nil {
				return err
			}
			sh := shell.New(a, cmd.OutOrStdout(), opts.logger)
			if err := sh.Run(ctx, cmd.InOrStdin()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

func runTUI(ctx context.Context, cmd *cobra.Command, opts *rootOptions) error {
	output := ui.NewOutput()
	logger := logging.New(output, opts.verbose)

	a, err := opts.loadApp(cmd, logger)
	if err != nil {
		return err
	}
	sh := shell.New(a, output, logger)

	model := ui.NewModel(ctx, sh, a.opener, output, logger)
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run shell: %w", err)
	}
	if m, ok := final.(ui.Model); ok {
		return m.Err()
	}
	return nil
}

func isTerminal(stream any) bool {
	f, ok := stream.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
