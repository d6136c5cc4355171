package ast

import "bslcheck/internal/source"

type ItemKind uint8

const (
	// ItemMethod is a procedure or function declaration.
	ItemMethod ItemKind = iota
	// ItemVars is a module-level 'Перем' declaration.
	ItemVars
	// ItemStmt is module body code or a top-level preprocessor marker.
	ItemStmt
)

type Item struct {
	Kind   ItemKind
	Span   source.Span
	Method MethodID
	Vars   []VarID
	Stmt   StmtID
}

type Items struct {
	Arena   *Arena[Item]
	Methods *Arena[Method]
	Vars    *Arena[VarDecl]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Items{
		Arena:   NewArena[Item](capHint),
		Methods: NewArena[Method](capHint),
		Vars:    NewArena[VarDecl](capHint),
	}
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) NewMethod(m Method) ItemID {
	mid := MethodID(i.Methods.Allocate(m))
	return ItemID(i.Arena.Allocate(Item{Kind: ItemMethod, Span: m.Span, Method: mid}))
}

func (i *Items) NewVars(sp source.Span, vars []VarID) ItemID {
	return ItemID(i.Arena.Allocate(Item{Kind: ItemVars, Span: sp, Vars: vars}))
}

func (i *Items) NewStmt(sp source.Span, stmt StmtID) ItemID {
	return ItemID(i.Arena.Allocate(Item{Kind: ItemStmt, Span: sp, Stmt: stmt}))
}

func (i *Items) Method(id MethodID) *Method {
	return i.Methods.Get(uint32(id))
}

// MethodOf returns the method payload of an ItemMethod item.
func (i *Items) MethodOf(id ItemID) (*Method, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemMethod {
		return nil, false
	}
	return i.Method(item.Method), true
}

func (i *Items) NewVar(v VarDecl) VarID {
	return VarID(i.Vars.Allocate(v))
}

func (i *Items) Var(id VarID) *VarDecl {
	return i.Vars.Get(uint32(id))
}
