package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bslcheck/internal/config"
	"bslcheck/internal/diag"
	"bslcheck/internal/diagfmt"
	"bslcheck/internal/driver"
	"bslcheck/internal/engine"
	"bslcheck/internal/rules"
	"bslcheck/internal/source"
	"bslcheck/internal/version"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <file.bsl|file.os|directory>...",
	Short: "Run diagnostics on BSL/OneScript files or directories",
	Long:  `Run diagnostics on the given files and on every *.bsl and *.os file found in the given directories`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.String("format", "pretty", "output format (pretty|short|json|sarif|lsp)")
	f.String("mode", "", "rule activation mode (on|off|all|only|except), overrides settings")
	f.String("skip-support", "", "skip modules by support mode (never|withSupport|withSupportLocked)")
	f.String("min-level", "", "minimum reported severity (hint|info|warning|error)")
	f.String("fail-on", "error", "exit with status 1 when a diagnostic reaches this severity (hint|info|warning|error|never)")
	f.Int("jobs", 0, "max parallel workers (0=auto)")
	f.Int("max-diagnostics", 0, "maximum number of diagnostics to print (0=all)")
	f.Bool("cache", false, "reuse results of unchanged files from the on-disk cache")
	f.Bool("clear-cache", false, "drop the on-disk cache before analyzing")
	f.String("ui", "auto", "progress UI (auto|on|off)")
	f.Bool("with-notes", false, "include diagnostic notes in output")
	f.Bool("suggest", false, "include fix suggestions in output")
	f.Bool("preview", false, "show fix previews (implies --suggest)")
	f.Bool("fullpath", false, "emit absolute file paths in output")
}

type analyzeOptions struct {
	format     string
	failOn     string
	jobs       int
	max        int
	cache      bool
	clearCache bool
	ui         uiMode
	withNotes  bool
	suggest    bool
	preview    bool
	fullPath   bool
	flags      config.Flags
}

func readAnalyzeOptions(cmd *cobra.Command) (analyzeOptions, error) {
	var o analyzeOptions
	f := cmd.Flags()
	var err error
	if o.format, err = f.GetString("format"); err != nil {
		return o, fmt.Errorf("failed to get format flag: %w", err)
	}
	if o.flags.Mode, err = f.GetString("mode"); err != nil {
		return o, fmt.Errorf("failed to get mode flag: %w", err)
	}
	if o.flags.SkipSupport, err = f.GetString("skip-support"); err != nil {
		return o, fmt.Errorf("failed to get skip-support flag: %w", err)
	}
	if o.flags.MinLevel, err = f.GetString("min-level"); err != nil {
		return o, fmt.Errorf("failed to get min-level flag: %w", err)
	}
	if o.failOn, err = f.GetString("fail-on"); err != nil {
		return o, fmt.Errorf("failed to get fail-on flag: %w", err)
	}
	if o.jobs, err = f.GetInt("jobs"); err != nil {
		return o, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if o.max, err = f.GetInt("max-diagnostics"); err != nil {
		return o, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if o.cache, err = f.GetBool("cache"); err != nil {
		return o, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if o.clearCache, err = f.GetBool("clear-cache"); err != nil {
		return o, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	uiValue, err := f.GetString("ui")
	if err != nil {
		return o, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if o.ui, err = readUIMode(uiValue); err != nil {
		return o, err
	}
	if o.withNotes, err = f.GetBool("with-notes"); err != nil {
		return o, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if o.suggest, err = f.GetBool("suggest"); err != nil {
		return o, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if o.preview, err = f.GetBool("preview"); err != nil {
		return o, fmt.Errorf("failed to get preview flag: %w", err)
	}
	if o.fullPath, err = f.GetBool("fullpath"); err != nil {
		return o, fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	switch o.format {
	case "pretty", "short", "json", "sarif", "lsp":
	default:
		return o, fmt.Errorf("unknown format: %s", o.format)
	}
	if _, err := failThreshold(o.failOn); err != nil {
		return o, err
	}
	return o, nil
}

// runAnalyze executes the "analyze" command: it resolves settings, analyzes
// every target, prints the report in the chosen format and fails when a
// diagnostic reaches the --fail-on severity.
func runAnalyze(cmd *cobra.Command, args []string) error {
	opts, err := readAnalyzeOptions(cmd)
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	logger, closeLog, err := setupLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	cleanupProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanupProf()

	settings, err := loadSettings(cmd, args[0], opts.flags, logger)
	if err != nil {
		return err
	}
	eng, err := newEngine(cmd, logger, showTimings)
	if err != nil {
		return err
	}

	paths, err := collectTargets(args)
	if err != nil {
		return err
	}

	dopts := driver.Options{
		Engine:   eng,
		Settings: &settings,
		Jobs:     opts.jobs,
		Logger:   logger,
	}
	if opts.cache || opts.clearCache {
		cache, cerr := driver.OpenDiskCache("bslcheck")
		if cerr != nil {
			return fmt.Errorf("failed to open cache: %w", cerr)
		}
		if opts.clearCache {
			if cerr := cache.DropAll(); cerr != nil {
				return fmt.Errorf("failed to clear cache: %w", cerr)
			}
		}
		if opts.cache {
			dopts.Cache = cache
		}
	}

	fileSet := source.NewFileSetWithBase(baseDirFor(args[0]))
	var run *driver.Run
	if shouldUseTUI(opts.ui) && opts.format == "pretty" {
		run, err = runAnalyzeWithUI(cmd.Context(), "bslcheck analyze", fileSet, paths, dopts)
	} else {
		run, err = driver.AnalyzeFiles(cmd.Context(), fileSet, paths, dopts)
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	reportFailedRules(logger, run)

	out := cmd.OutOrStdout()
	if err := printReport(cmd, out, run, eng, opts); err != nil {
		return err
	}
	if showTimings {
		printTimings(cmd.ErrOrStderr(), run)
	}

	if failed(run, opts.failOn) {
		// диагностики уже напечатаны, cobra не должна добавлять usage
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errDiagnostics
	}
	return nil
}

var errDiagnostics = errors.New("diagnostics reached the failure threshold")

// collectTargets expands directories into their sources; explicit files are
// kept even when their extension is unknown.
func collectTargets(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path: %w", err)
		}
		var found []string
		if st.IsDir() {
			if found, err = driver.ListSources(arg); err != nil {
				return nil, err
			}
		} else {
			found = []string{arg}
		}
		for _, p := range found {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	return paths, nil
}

func reportFailedRules(logger *slog.Logger, run *driver.Run) {
	for _, f := range run.Files {
		if len(f.Failed) > 0 {
			logger.Warn("rules failed and were skipped", "path", f.Path, "rules", strings.Join(f.Failed, ","))
		}
	}
}

func printReport(cmd *cobra.Command, out io.Writer, run *driver.Run, eng *engine.Engine, opts analyzeOptions) error {
	bag := diag.NewBag(opts.max)
	bag.AddAll(run.Diagnostics())

	pathMode := diagfmt.PathModeAuto
	if opts.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	showFixes := opts.suggest || opts.preview

	switch opts.format {
	case "pretty":
		color, err := useColor(cmd, out)
		if err != nil {
			return err
		}
		diagfmt.Pretty(out, bag, run.FileSet, diagfmt.PrettyOpts{
			Color:       color,
			Context:     2,
			PathMode:    pathMode,
			ShowNotes:   opts.withNotes,
			ShowFixes:   showFixes,
			ShowPreview: opts.preview,
		})
	case "short":
		if s := diag.FormatShort(bag.Items(), run.FileSet, opts.withNotes); s != "" {
			fmt.Fprintln(out, s)
		}
	case "json":
		err := diagfmt.JSON(out, bag, run.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     opts.withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  opts.preview,
		})
		if err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "sarif":
		meta := diagfmt.SarifRunMeta{
			ToolName:       "bslcheck",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
			Rules:          sarifRules(eng),
		}
		if err := diagfmt.Sarif(out, bag, run.FileSet, meta); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "lsp":
		if err := diagfmt.LSPJSON(out, bag, run.FileSet); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}
	if n := bag.Dropped(); n > 0 && (opts.format == "pretty" || opts.format == "short") {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d more diagnostic(s) not shown (--max-diagnostics %d)\n", n, opts.max)
	}
	return nil
}

func sarifRules(eng *engine.Engine) []diagfmt.SarifRule {
	descs := eng.AllDescriptors()
	out := make([]diagfmt.SarifRule, 0, len(descs))
	for _, d := range descs {
		tags := make([]string, 0, len(d.Tags))
		for _, t := range d.Tags {
			tags = append(tags, string(t))
		}
		out = append(out, diagfmt.SarifRule{
			ID:          d.Code,
			Name:        d.Name,
			Description: d.Description,
			Level:       diagfmt.SarifLevel(rules.LSPSeverity(d.Type, d.Severity)),
			Tags:        tags,
		})
	}
	return out
}

// failThreshold parses --fail-on. "never" is accepted and checked by failed.
func failThreshold(s string) (diag.Severity, error) {
	if strings.EqualFold(strings.TrimSpace(s), "never") {
		return 0, nil
	}
	sev, err := diag.ParseSeverity(s)
	if err != nil {
		return 0, fmt.Errorf("--fail-on: %w", err)
	}
	return sev, nil
}

func failed(run *driver.Run, failOn string) bool {
	if strings.EqualFold(strings.TrimSpace(failOn), "never") {
		return false
	}
	threshold, err := failThreshold(failOn)
	if err != nil {
		return true
	}
	for _, f := range run.Files {
		if f.Err != nil && !errors.Is(f.Err, context.Canceled) {
			return true
		}
		for _, d := range f.Diagnostics {
			if d.Severity >= threshold {
				return true
			}
		}
	}
	return false
}
