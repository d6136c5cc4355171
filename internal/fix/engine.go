package fix

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"slices"

	"bslcheck/internal/diag"
	"bslcheck/internal/source"
)

// ErrNoFixes is returned when nothing was applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode selects which fixes Apply takes.
type ApplyMode uint8

const (
	// ApplyModeOnce takes the first safe fix, or the first fix at all.
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
	// ApplyModeCode takes every safe fix resolving diagnostics of TargetCode.
	ApplyModeCode
)

type ApplyOptions struct {
	Mode       ApplyMode
	TargetID   string
	TargetCode diag.Code
	// DryRun keeps results in ApplyResult.Buffers instead of writing files.
	// Виртуальные файлы (редактор, тесты) можно править только так.
	DryRun bool
}

type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
	Resolves      int
}

type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

type FileChange struct {
	Path      string
	EditCount int
}

type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
	// Buffers holds the new content of every changed file, also on DryRun.
	Buffers map[source.FileID][]byte
}

func (r *ApplyResult) skip(f diag.Fix, reason string) {
	r.Skipped = append(r.Skipped, SkippedFix{ID: f.ID, Title: f.Title, Reason: reason})
}

type candidate struct {
	fix     diag.Fix
	primary source.Span
	code    diag.Code
	order   int
}

// Apply picks fixes according to opts and applies their edits. Правки
// хранятся в исходных координатах файла, поэтому конфликт с уже принятым
// исправлением отклоняет только новое.
func Apply(fs *source.FileSet, fixes []diag.Fix, opts ApplyOptions) (*ApplyResult, error) {
	res := &ApplyResult{Buffers: map[source.FileID][]byte{}}
	if fs == nil {
		return res, fmt.Errorf("fix: FileSet is nil")
	}

	cands, skips := gatherCandidates(fixes)
	res.Skipped = append(res.Skipped, skips...)
	slices.SortStableFunc(cands, func(a, b candidate) int {
		return cmp.Or(
			cmp.Compare(a.primary.File, b.primary.File),
			cmp.Compare(a.primary.Start, b.primary.Start),
			cmp.Compare(a.primary.End, b.primary.End),
			cmp.Compare(a.order, b.order),
		)
	})

	picked := pick(cands, opts, res)
	if len(picked) == 0 {
		return res, ErrNoFixes
	}

	ledger := map[source.FileID]*fileEdits{}
	for _, c := range picked {
		if reason := stage(fs, ledger, c.fix.Edits, opts.DryRun); reason != "" {
			res.skip(c.fix, reason)
			continue
		}
		res.Applied = append(res.Applied, AppliedFix{
			ID:            c.fix.ID,
			Title:         c.fix.Title,
			Code:          c.code,
			Applicability: c.fix.Applicability,
			PrimaryPath:   displayPath(fs, c.primary.File),
			EditCount:     len(c.fix.Edits),
			Resolves:      len(c.fix.Resolves),
		})
	}
	if len(res.Applied) == 0 {
		return res, ErrNoFixes
	}

	for id, fe := range ledger {
		res.Buffers[id] = fe.render()
		res.FileChanges = append(res.FileChanges, FileChange{
			Path:      fe.file.FormatPath("relative", fs.BaseDir()),
			EditCount: len(fe.edits),
		})
	}
	slices.SortFunc(res.FileChanges, func(a, b FileChange) int { return cmp.Compare(a.Path, b.Path) })

	if opts.DryRun {
		return res, nil
	}
	for id, fe := range ledger {
		if err := writeKeepingMode(fe.file.Path, res.Buffers[id]); err != nil {
			return res, err
		}
	}
	return res, nil
}

// gatherCandidates drops fixes without edits and repeated IDs. A missing ID
// is made from the first resolved diagnostic and the input position.
func gatherCandidates(fixes []diag.Fix) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
	)
	seen := make(map[string]bool, len(fixes))
	for i, f := range fixes {
		if len(f.Edits) == 0 {
			skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "fix has no edits"})
			continue
		}
		c := candidate{fix: f, order: i, primary: f.Edits[0].Span}
		if len(f.Resolves) > 0 {
			c.primary, c.code = f.Resolves[0].Primary, f.Resolves[0].Code
		}
		if c.fix.ID == "" {
			c.fix.ID = fmt.Sprintf("%s-%d", MakeFixID(c.code, c.primary), i)
		}
		if seen[c.fix.ID] {
			skips = append(skips, SkippedFix{ID: c.fix.ID, Title: f.Title, Reason: "duplicate fix id"})
			continue
		}
		seen[c.fix.ID] = true
		cands = append(cands, c)
	}
	return cands, skips
}

func pick(cands []candidate, opts ApplyOptions, res *ApplyResult) []candidate {
	switch opts.Mode {
	case ApplyModeOnce:
		if i := slices.IndexFunc(cands, func(c candidate) bool {
			return c.fix.Applicability == diag.FixApplicabilityAlwaysSafe
		}); i >= 0 {
			return cands[i : i+1]
		}
		if len(cands) > 0 {
			return cands[:1]
		}
	case ApplyModeID:
		if i := slices.IndexFunc(cands, func(c candidate) bool { return c.fix.ID == opts.TargetID }); i >= 0 {
			return cands[i : i+1]
		}
		res.Skipped = append(res.Skipped, SkippedFix{ID: opts.TargetID, Reason: "fix id not found"})
	case ApplyModeAll, ApplyModeCode:
		var out []candidate
		for _, c := range cands {
			switch {
			case opts.Mode == ApplyModeCode && c.code != opts.TargetCode:
			case c.fix.Kind == diag.FixKindFixAll:
				// повторяет одиночные исправления
			case c.fix.Applicability != diag.FixApplicabilityAlwaysSafe:
				res.skip(c.fix, "applicability is "+c.fix.Applicability.String())
			default:
				out = append(out, c)
			}
		}
		return out
	}
	return nil
}

// fileEdits is the accepted edit list of one file, sorted by span.
type fileEdits struct {
	file  *source.File
	edits []diag.TextEdit
}

func (fe *fileEdits) render() []byte {
	var out bytes.Buffer
	out.Grow(len(fe.file.Content))
	pos := uint32(0)
	for _, e := range fe.edits {
		out.Write(fe.file.Content[pos:e.Span.Start])
		out.WriteString(e.NewText)
		pos = e.Span.End
	}
	out.Write(fe.file.Content[pos:])
	return out.Bytes()
}

// stage checks edits of one fix and merges them into the ledger. A non-empty
// reason means the ledger is unchanged.
func stage(fs *source.FileSet, ledger map[source.FileID]*fileEdits, edits []diag.TextEdit, dryRun bool) string {
	merged := map[source.FileID][]diag.TextEdit{}
	fresh := map[source.FileID]*fileEdits{}
	for _, e := range edits {
		id := e.Span.File
		fe := ledger[id]
		if fe == nil {
			fe = fresh[id]
		}
		if fe == nil {
			file := fs.Get(id)
			if file == nil {
				return "target file is unknown"
			}
			if file.Flags&source.FileVirtual != 0 && !dryRun {
				return "target file is virtual"
			}
			fe = &fileEdits{file: file}
			fresh[id] = fe
		}
		if e.Span.End < e.Span.Start || int(e.Span.End) > len(fe.file.Content) {
			return "edit span out of range"
		}
		if e.OldText != "" && string(fe.file.Content[e.Span.Start:e.Span.End]) != e.OldText {
			return "existing text does not match expected content"
		}
		for _, prev := range fe.edits {
			if spansConflict(prev, e) {
				return "conflicts with previously applied edits in " + displayPath(fs, id)
			}
		}
		if merged[id] == nil {
			merged[id] = slices.Clone(fe.edits)
		}
		merged[id] = append(merged[id], e)
	}

	for id, list := range merged {
		slices.SortStableFunc(list, func(a, b diag.TextEdit) int {
			return cmp.Or(cmp.Compare(a.Span.Start, b.Span.Start), cmp.Compare(a.Span.End, b.Span.End))
		})
		for i := 1; i < len(list); i++ {
			if list[i].Span.Start < list[i-1].Span.End {
				return "fix edits overlap"
			}
		}
		merged[id] = list
	}
	for id, fe := range fresh {
		ledger[id] = fe
	}
	for id, list := range merged {
		ledger[id].edits = list
	}
	return ""
}

// spansConflict reports whether two edits overlap as half-open intervals.
// Две вставки нулевой длины никогда не конфликтуют.
func spansConflict(a, b diag.TextEdit) bool {
	as, ae, bs, be := a.Span.Start, a.Span.End, b.Span.Start, b.Span.End
	switch {
	case as == ae && bs == be:
		return false
	case as == ae:
		return bs <= as && as < be
	case bs == be:
		return as <= bs && bs < ae
	}
	return as < be && bs < ae
}

func writeKeepingMode(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func displayPath(fs *source.FileSet, id source.FileID) string {
	if file := fs.Get(id); file != nil {
		return file.FormatPath("auto", fs.BaseDir())
	}
	return ""
}
