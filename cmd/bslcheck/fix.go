package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bslcheck/internal/config"
	"bslcheck/internal/diag"
	"bslcheck/internal/driver"
	"bslcheck/internal/engine"
	"bslcheck/internal/fix"
	"bslcheck/internal/source"
)

type fixFlags struct {
	all, once bool
	id, code  string
	dryRun    bool
	mode      string
	jobs      int
}

func newFixCmd() *cobra.Command {
	var ff fixFlags
	cmd := &cobra.Command{
		Use:   "fix [flags] <file.bsl|directory>",
		Short: "Apply available quick fixes to a source file or directory",
		Long:  "Run diagnostics, collect the quick fixes rules offer, and apply them according to the chosen strategy.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args[0], ff)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&ff.all, "all", false, "apply all safe fixes")
	f.BoolVar(&ff.once, "once", false, "apply the first available fix (default)")
	f.StringVar(&ff.id, "id", "", "apply fix with a specific identifier")
	f.StringVar(&ff.code, "code", "", "apply every safe fix for diagnostics with this code")
	f.BoolVar(&ff.dryRun, "dry-run", false, "report what would change without writing files")
	f.StringVar(&ff.mode, "mode", "", "rule activation mode (on|off|all|only|except), overrides settings")
	f.IntVar(&ff.jobs, "jobs", 0, "max parallel workers (0=auto)")
	return cmd
}

func runFix(cmd *cobra.Command, target string, ff fixFlags) error {
	opts, err := fixApplyOptions(ff.all, ff.once, ff.id, ff.code)
	if err != nil {
		return err
	}
	opts.DryRun = ff.dryRun

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	// id уникален только в пределах одного файла
	if info.IsDir() && ff.id != "" {
		return errors.New("fix: id can only be used with a single file")
	}

	logger, closeLog, err := setupLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	settings, err := loadSettings(cmd, target, config.Flags{Mode: ff.mode}, logger)
	if err != nil {
		return err
	}
	eng, err := newEngine(cmd, logger, false)
	if err != nil {
		return err
	}
	paths, err := collectTargets([]string{target})
	if err != nil {
		return err
	}

	// без кэша: закэшированный результат не несёт документа, а значит и исправлений
	run, err := driver.AnalyzeFiles(cmd.Context(), source.NewFileSetWithBase(baseDirFor(target)), paths, driver.Options{
		Engine:   eng,
		Settings: &settings,
		Jobs:     ff.jobs,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("fix: analysis failed: %w", err)
	}
	reportFailedRules(logger, run)

	res, applyErr := fix.Apply(run.FileSet, collectFixes(eng, run), opts)
	return printApplyResult(cmd.OutOrStdout(), res, applyErr, ff.dryRun)
}

func fixApplyOptions(all, once bool, id, code string) (fix.ApplyOptions, error) {
	switch {
	case id != "" && (all || once || code != ""):
		return fix.ApplyOptions{}, errors.New("--id cannot be combined with --all, --once or --code")
	case code != "" && (all || once):
		return fix.ApplyOptions{}, errors.New("--code cannot be combined with --all or --once")
	case all && once:
		return fix.ApplyOptions{}, errors.New("--all and --once are mutually exclusive")
	case id != "":
		return fix.ApplyOptions{Mode: fix.ApplyModeID, TargetID: id}, nil
	case code != "":
		return fix.ApplyOptions{Mode: fix.ApplyModeCode, TargetCode: diag.Code(strings.TrimSpace(code))}, nil
	case all:
		return fix.ApplyOptions{Mode: fix.ApplyModeAll}, nil
	}
	return fix.ApplyOptions{Mode: fix.ApplyModeOnce}, nil
}

// collectFixes gathers the fixes attached to diagnostics plus the quick fixes
// rules provide over whole files. Групповые "исправить все" пропускаются:
// --all и --code покрывают их сами.
func collectFixes(eng *engine.Engine, run *driver.Run) []diag.Fix {
	var fixes []diag.Fix
	for _, fr := range run.Files {
		for _, d := range fr.Diagnostics {
			fixes = append(fixes, d.Fixes...)
		}
		file := run.FileSet.Get(fr.FileID)
		if fr.Doc == nil || file == nil {
			continue
		}
		whole := source.Span{File: fr.FileID, End: file.Len()}
		for _, f := range eng.QuickFixes(fr.Doc, fr.Diagnostics, whole) {
			if f.Kind != diag.FixKindFixAll {
				fixes = append(fixes, f)
			}
		}
	}
	return fixes
}

// printApplyResult writes the human summary of an apply run. ErrNoFixes is
// reported, not returned.
func printApplyResult(w io.Writer, res *fix.ApplyResult, applyErr error, dryRun bool) error {
	if res == nil {
		return applyErr
	}
	var sb strings.Builder
	if n := len(res.Applied); n > 0 {
		fmt.Fprintf(&sb, "%s %d fix(es):\n", pick(dryRun, "Would apply", "Applied"), n)
		for _, a := range res.Applied {
			fmt.Fprintf(&sb, "  %s [%s] %s: %s (%d edits, %s)\n",
				a.Title, a.ID, a.Code, orDefault(a.PrimaryPath, "(unknown location)"), a.EditCount, a.Applicability)
		}
	}
	if len(res.FileChanges) > 0 {
		sb.WriteString(pick(dryRun, "Files that would change:", "Updated files:") + "\n")
		for _, ch := range res.FileChanges {
			fmt.Fprintf(&sb, "  %s (%d edits)\n", ch.Path, ch.EditCount)
		}
	}
	if len(res.Skipped) > 0 {
		sb.WriteString("Skipped fixes:\n")
		for _, s := range res.Skipped {
			label := "[" + orDefault(s.ID, "(unnamed)") + "]"
			if s.Title != "" {
				label = s.Title + " " + label
			}
			fmt.Fprintf(&sb, "  %s: %s\n", label, s.Reason)
		}
	}

	var err error
	switch {
	case errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0:
		sb.WriteString("No applicable fixes found.\n")
	case applyErr != nil:
		err = applyErr
	case len(res.Applied) == 0:
		sb.WriteString("No fixes applied.\n")
	}
	if _, werr := io.WriteString(w, sb.String()); werr != nil {
		return werr
	}
	return err
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
