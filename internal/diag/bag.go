package diag

import (
	"cmp"
	"slices"
)

// Bag collects diagnostics up to a limit. Сверх лимита диагностики не
// хранятся, но считаются: вывод сообщает, сколько скрыто.
type Bag struct {
	items   []Diagnostic
	limit   int
	dropped int
}

// NewBag makes a bag for at most limit diagnostics; limit <= 0 means no limit.
func NewBag(limit int) *Bag {
	return &Bag{items: make([]Diagnostic, 0, min(max(limit, 0), 64)), limit: limit}
}

// Add reports false when the limit refused d.
func (b *Bag) Add(d Diagnostic) bool {
	if b.limit > 0 && len(b.items) >= b.limit {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// AddAll adds ds in order and returns how many were kept.
func (b *Bag) AddAll(ds []Diagnostic) int {
	kept := 0
	for _, d := range ds {
		if b.Add(d) {
			kept++
		}
	}
	return kept
}

func (b *Bag) Len() int { return len(b.items) }

// Dropped counts diagnostics refused by the limit.
func (b *Bag) Dropped() int { return b.dropped }

// Items shares the bag's backing array; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
}

// Sort orders the bag with Compare.
func (b *Bag) Sort() { SortDiagnostics(b.items) }

// SortDiagnostics stable-sorts items with Compare.
func SortDiagnostics(items []Diagnostic) { slices.SortStableFunc(items, Compare) }

// Compare orders by file and span, then more severe first, then by code.
func Compare(a, b Diagnostic) int {
	return cmp.Or(
		cmp.Compare(a.Primary.File, b.Primary.File),
		cmp.Compare(a.Primary.Start, b.Primary.Start),
		cmp.Compare(a.Primary.End, b.Primary.End),
		cmp.Compare(b.Severity, a.Severity),
		cmp.Compare(a.Code, b.Code),
	)
}
