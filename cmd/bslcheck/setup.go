package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bslcheck/internal/config"
	"bslcheck/internal/engine"
	"bslcheck/internal/metadata"
	"bslcheck/internal/project"
	"bslcheck/internal/slogutil"
)

// setupLogger builds the logger from -q, -v, --log-level and --log-file.
// Логи всегда идут в stderr или файл: stdout занят отчётами и LSP.
func setupLogger(cmd *cobra.Command) (*slog.Logger, func(), error) {
	pf := cmd.Root().PersistentFlags()
	quiet, err := pf.GetBool("quiet")
	if err != nil {
		return nil, nil, err
	}
	verbose, err := pf.GetCount("verbose")
	if err != nil {
		return nil, nil, err
	}
	levelStr, err := pf.GetString("log-level")
	if err != nil {
		return nil, nil, err
	}
	logFile, err := pf.GetString("log-file")
	if err != nil {
		return nil, nil, err
	}

	level := slogutil.LevelFromVerbosity(verbose, quiet)
	if levelStr != "" {
		level = slogutil.LevelFromString(levelStr)
	}
	if logFile == "" {
		return slogutil.New(cmd.ErrOrStderr(), level), func() {}, nil
	}
	logger, f, err := slogutil.NewFile(logFile, level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logger, func() { _ = f.Close() }, nil
}

// loadSettings resolves settings for target: --config wins, then
// bslcheck.toml found upwards from target, then defaults. CLI overrides
// from f are applied last.
func loadSettings(cmd *cobra.Command, target string, f config.Flags, logger *slog.Logger) (config.Settings, error) {
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Settings{}, err
	}
	if configPath == "" && target != "" {
		found, ok, findErr := project.FindConfig(target)
		if findErr != nil {
			return config.Settings{}, findErr
		}
		if ok {
			configPath = found
		}
	}

	settings := config.Default()
	if configPath != "" {
		settings, err = config.LoadFile(configPath)
		if err != nil {
			return config.Settings{}, err
		}
		logger.Info("settings loaded", "path", configPath)
	}
	return f.Apply(settings)
}

// newEngine builds the analysis engine, loading --metadata when given.
func newEngine(cmd *cobra.Command, logger *slog.Logger, timings bool) (*engine.Engine, error) {
	metaPath, err := cmd.Root().PersistentFlags().GetString("metadata")
	if err != nil {
		return nil, err
	}
	opts := engine.Options{Logger: logger, Timings: timings}
	if metaPath != "" {
		model, loadErr := metadata.LoadModel(metaPath)
		if loadErr != nil {
			return nil, loadErr
		}
		opts.Provider = model
	}
	return engine.New(opts), nil
}

func useColor(cmd *cobra.Command, out io.Writer) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		f, ok := out.(*os.File)
		return ok && isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
}

// baseDirFor is the directory paths in reports are shown relative to.
func baseDirFor(target string) string {
	abs, err := filepath.Abs(target)
	if err != nil {
		return target
	}
	if st, statErr := os.Stat(abs); statErr == nil && !st.IsDir() {
		return filepath.Dir(abs)
	}
	return abs
}
