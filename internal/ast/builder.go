package ast

import (
	"bslcheck/internal/source"
)

type Hints struct{ Items, Stmts uint }

// Builder owns the arenas of one parsed module.
type Builder struct {
	Items *Items
	Stmts *Stmts
	File  *File
}

func NewBuilder(file source.FileID, hints Hints) *Builder {
	if hints.Items == 0 {
		hints.Items = 1 << 6
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	return &Builder{
		Items: NewItems(hints.Items),
		Stmts: NewStmts(hints.Stmts),
		File:  &File{Source: file},
	}
}

func (b *Builder) PushItem(item ItemID) {
	b.File.Items = append(b.File.Items, item)
}

// Methods returns every method of the file in source order.
func (b *Builder) Methods() []*Method {
	var out []*Method
	for _, id := range b.File.Items {
		if m, ok := b.Items.MethodOf(id); ok {
			out = append(out, m)
		}
	}
	return out
}

// WalkStmts calls fn for every statement of block and its nested blocks, pre-order.
// Returning false from fn skips the children of that statement.
func (b *Builder) WalkStmts(block Block, fn func(id StmtID, st *Stmt) bool) {
	for _, id := range block.Stmts {
		st := b.Stmts.Get(id)
		if st == nil {
			continue
		}
		if !fn(id, st) {
			continue
		}
		for _, child := range b.Stmts.Children(id) {
			b.WalkStmts(child, fn)
		}
	}
}
