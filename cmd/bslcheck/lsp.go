package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bslcheck/internal/config"
	"bslcheck/internal/lsp"
	"bslcheck/internal/version"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the bslcheck language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func init() {
	lspCmd.Flags().Duration("debounce", 0, "delay before re-analyzing an edited document (0=default)")
}

func runLSP(cmd *cobra.Command, _ []string) error {
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	logger, closeLog, err := setupLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	eng, err := newEngine(cmd, logger, false)
	if err != nil {
		return err
	}

	opts := lsp.ServerOptions{
		Engine:   eng,
		Debounce: debounce,
		Logger:   logger,
		Version:  version.Version,
	}
	// явный --config закрепляет настройки, иначе сервер ищет bslcheck.toml в корне workspace
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return err
	}
	if configPath != "" {
		settings, loadErr := loadSettings(cmd, "", config.Flags{}, logger)
		if loadErr != nil {
			return loadErr
		}
		opts.Settings = &settings
	}

	server := lsp.NewServer(opts)
	if err := server.Run(cmd.Context(), lsp.Stdio()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
