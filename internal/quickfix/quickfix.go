// Package quickfix routes diagnostics to the rules that produced them and
// collects their edits.
package quickfix

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"bslcheck/internal/diag"
	"bslcheck/internal/fix"
	"bslcheck/internal/rules"
	"bslcheck/internal/selector"
	"bslcheck/internal/source"
)

// Provider builds fixes for diagnostics of one document.
type Provider struct {
	registry *rules.Registry
	selector *selector.Selector
	logger   *slog.Logger
}

func New(reg *rules.Registry, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Provider{registry: reg, selector: selector.New(reg, logger), logger: logger}
}

// Provide returns fixes for the diagnostics intersecting rng. diagnostics is
// the full set the client knows for doc; it feeds the "fix all" action,
// offered when a fixable code has at least two diagnostics.
// No matching diagnostics gives an empty list.
func (p *Provider) Provide(doc *rules.Document, diagnostics []diag.Diagnostic, rng source.Span) []diag.Fix {
	byCode := make(map[string][]diag.Diagnostic)
	var order []string
	for _, d := range diagnostics {
		key := strings.ToLower(string(d.Code))
		if _, seen := byCode[key]; !seen {
			order = append(order, key)
		}
		byCode[key] = append(byCode[key], d)
	}

	var out []diag.Fix
	for _, key := range order {
		all := byCode[key]
		var hit []diag.Diagnostic
		for _, d := range all {
			if d.Primary.Overlaps(rng) {
				hit = append(hit, d)
			}
		}
		if len(hit) == 0 {
			continue
		}
		out = append(out, p.forCode(doc, key, hit, all, rng)...)
	}
	return out
}

func (p *Provider) forCode(doc *rules.Document, code string, hit, all []diag.Diagnostic, rng source.Span) (out []diag.Fix) {
	d, ok := p.registry.Lookup(code)
	if !ok {
		return nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("quick fix panicked", "rule", d.Code, "panic", fmt.Sprint(rec))
			out = nil
		}
	}()

	a := p.selector.Activate(d, doc.Settings)
	fixer, ok := a.Rule.(rules.QuickFixer)
	if !ok {
		return nil
	}
	req := &rules.FixRequest{Doc: doc, Diagnostics: hit, All: all, Range: rng, Config: a.Config}
	out = resolving(fixer.QuickFixes(req), hit)

	if len(all) >= 2 {
		req.Diagnostics = all
		if fa, ok := fixAll(d.Code, resolving(fixer.QuickFixes(req), all)); ok {
			out = append(out, fa)
		}
	}
	return out
}

// resolving keeps fixes that resolve only diagnostics from ds.
func resolving(fixes []diag.Fix, ds []diag.Diagnostic) []diag.Fix {
	out := fixes[:0:0]
	for _, f := range fixes {
		if len(f.Resolves) == 0 || len(f.Edits) == 0 {
			continue
		}
		ok := true
		for _, r := range f.Resolves {
			if !containsDiag(ds, r) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, f)
		}
	}
	return out
}

func containsDiag(ds []diag.Diagnostic, d diag.Diagnostic) bool {
	for _, x := range ds {
		if x.SameAs(d) {
			return true
		}
	}
	return false
}

// fixAll merges non-overlapping edits of per-diagnostic fixes into one action.
func fixAll(code string, fixes []diag.Fix) (diag.Fix, bool) {
	var edits []diag.TextEdit
	var resolves []diag.Diagnostic
	for _, f := range fixes {
		if f.Kind == diag.FixKindFixAll || overlapsAny(edits, f.Edits) {
			continue
		}
		edits = append(edits, f.Edits...)
		for _, r := range f.Resolves {
			if !containsDiag(resolves, r) {
				resolves = append(resolves, r)
			}
		}
	}
	if len(resolves) < 2 {
		return diag.Fix{}, false
	}
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Span.File != edits[j].Span.File {
			return edits[i].Span.File < edits[j].Span.File
		}
		return edits[i].Span.Start < edits[j].Span.Start
	})
	title := fmt.Sprintf("Исправить все: %s", code)
	return fix.Edits(title, edits,
		fix.WithKind(diag.FixKindFixAll),
		fix.WithID("fixall-"+code),
		fix.Resolving(resolves...),
	), true
}

func overlapsAny(have, next []diag.TextEdit) bool {
	for _, n := range next {
		for _, h := range have {
			if h.Span.Overlaps(n.Span) {
				return true
			}
		}
	}
	return false
}
