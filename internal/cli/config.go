package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlieverse/diary/internal/config"
)

var errNoTerminal = errors.New("--prompt-key needs an interactive terminal")

func newCreateConfigCommand(opts *rootOptions) *cobra.Command {
	var (
		force     bool
		promptKey bool
	)

	cmd := &cobra.Command{
		Use:     "create_config",
		Aliases: []string{"create-config"},
		Short:   "Write a default configuration file with a freshly generated key.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}

			cfg, err := config.Default()
			if err != nil {
				return err
			}
			if promptKey {
				if cfg.Key, err = readPassphrase(cmd); err != nil {
					return err
				}
			}

			if err := config.Write(path, cfg, force); err != nil {
				return err
			}
			opts.logger.Info("wrote configuration", "file", path, "diary_base", cfg.DiaryBase)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")
	cmd.Flags().BoolVar(&promptKey, "prompt-key", false, "Read a passphrase from the terminal instead of generating a key")

	return cmd
}

func readPassphrase(cmd *cobra.Command) (string, error) {
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return "", errNoTerminal
	}
	fd := int(in.Fd())
	out := cmd.ErrOrStderr()

	fmt.Fprint(out, "Passphrase: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	if len(first) == 0 {
		return "", errors.New("passphrase must not be empty")
	}

	fmt.Fprint(out, "Repeat passphrase: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passphrases do not match")
	}
	return string(first), nil
}
