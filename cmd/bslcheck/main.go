package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bslcheck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "bslcheck",
	Short: "Static analysis for 1C:Enterprise (BSL) and OneScript sources",
	Long:  `bslcheck runs diagnostics over BSL modules and OneScript scripts, applies quick fixes and serves them over LSP`,

	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if traceCleanup != nil {
			traceCleanup()
			traceCleanup = nil
		}
	},
}

var traceCleanup func()

// main registers subcommands and persistent flags, then executes the root
// command. Any error exits with status 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(newFixCmd())
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")
	pf.CountP("verbose", "v", "increase log verbosity (-v info, -vv debug)")
	pf.String("log-level", "", "log level (debug|info|warn|error), overrides -v")
	pf.String("log-file", "", "write logs to a file instead of stderr")
	pf.Bool("timings", false, "show timing information")
	pf.String("config", "", "settings file (default: bslcheck.toml found upwards from the target)")
	pf.String("metadata", "", "configuration metadata model (TOML)")

	pf.String("trace", "", "write trace events to a file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	pf.String("trace-format", "auto", "trace output format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "ring buffer size for --trace-mode ring|both")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")

	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	if err := rootCmd.Execute(); err != nil {
		if traceCleanup != nil {
			traceCleanup()
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
