package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/charlieverse/diary/internal/config"
	"github.com/charlieverse/diary/internal/crypt"
	"github.com/charlieverse/diary/internal/diary"
	"github.com/charlieverse/diary/internal/files"
)

// app holds the collaborators built from one loaded configuration. It
// implements shell.Handler.
type app struct {
	cfg     config.Config
	logger  *log.Logger
	manager *files.Manager
	vault   *crypt.Vault
	writer  *diary.Writer
	opener  *diary.Opener
	scanner *diary.Scanner
}

// loadApp reads the configuration and wires the diary components once per
// invocation. logger receives everything the components report.
func (o *rootOptions) loadApp(cmd *cobra.Command, logger *log.Logger) (*app, error) {
	if o.app != nil {
		return o.app, nil
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	a, err := newApp(cfg, logger, o.managerOpts, o.writerOpts)
	if err != nil {
		return nil, err
	}
	a.opener.SetStdio(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	o.app = a
	return a, nil
}

func newApp(cfg config.Config, logger *log.Logger, managerOpts []files.Option, writerOpts []diary.WriterOption) (*app, error) {
	manager, err := files.NewManager(cfg.DiaryBase, managerOpts...)
	if err != nil {
		return nil, fmt.Errorf("resolve diary base: %w", err)
	}

	var cipher *crypt.Cipher
	if cfg.EncryptionEnabled() {
		cipher, err = crypt.NewCipher(cfg.Key)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("encryption disabled: configuration key is empty")
	}
	vault := crypt.NewVault(cipher, cfg.PlaintextPolicy == config.PlaintextReject, logger)

	writer, err := diary.NewWriter(manager, vault, cfg.TimestampFormat, writerOpts...)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		manager: manager,
		vault:   vault,
		writer:  writer,
		opener:  diary.NewOpener(manager, vault, cfg.EditorPath, cfg.EditorArgs, logger),
		scanner: diary.NewScanner(manager, vault, logger),
	}, nil
}

func (a *app) Append(ctx context.Context, action diary.Action) (diary.Entry, error) {
	return a.writer.Append(ctx, action)
}

func (a *app) Report(ctx context.Context, days int) (diary.Report, error) {
	return a.scanner.Scan(ctx, days)
}

func (a *app) Open(ctx context.Context, offset int) error {
	return a.opener.Open(ctx, offset)
}
