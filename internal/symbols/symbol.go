package symbols

import (
	"bslcheck/internal/ast"
	"bslcheck/internal/source"
	"bslcheck/internal/token"
)

// SymbolKind is the tag of the Symbol union.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolModule
	SymbolRegion
	SymbolMethod
	SymbolVariable
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolModule:
		return "module"
	case SymbolRegion:
		return "region"
	case SymbolMethod:
		return "method"
	case SymbolVariable:
		return "variable"
	default:
		return "invalid"
	}
}

// VarKind tells where a variable is declared.
type VarKind uint8

const (
	VarModule VarKind = iota
	VarLocal
	VarParam
)

func (k VarKind) String() string {
	switch k {
	case VarModule:
		return "module"
	case VarLocal:
		return "local"
	case VarParam:
		return "parameter"
	}
	return "unknown"
}

// Symbol is a named, range-addressed node. Ровно одна из полезных нагрузок
// (Region, Method, Var) заполнена в соответствии с Kind; у модуля: ни одной.
type Symbol struct {
	Kind SymbolKind
	Name string
	// Span covers the whole declaration, NameSpan only the name.
	Span     source.Span
	NameSpan source.Span
	Owner    *Symbol
	Children []*Symbol

	Region *RegionInfo
	Method *MethodInfo
	Var    *VarInfo
}

type RegionInfo struct {
	Decl *ast.Region
}

type MethodInfo struct {
	IsFunction bool
	Export     bool
	Async      bool
	Directives []token.Directive
	Params     []ast.Param
	// Decl points at the parse tree; Body is the entry for flow analysis.
	Decl *ast.Method
}

type VarInfo struct {
	Kind   VarKind
	Export bool
}

// IsRoot reports whether s is the module symbol.
func (s *Symbol) IsRoot() bool { return s.Owner == nil }

// Depth is the number of owners above s.
func (s *Symbol) Depth() int {
	d := 0
	for o := s.Owner; o != nil; o = o.Owner {
		d++
	}
	return d
}

// EnclosingMethod returns the nearest method owning s (s itself included).
func (s *Symbol) EnclosingMethod() *Symbol {
	for cur := s; cur != nil; cur = cur.Owner {
		if cur.Kind == SymbolMethod {
			return cur
		}
	}
	return nil
}

// EnclosingRegion returns the nearest region owning s, nil at module level.
func (s *Symbol) EnclosingRegion() *Symbol {
	for cur := s.Owner; cur != nil; cur = cur.Owner {
		if cur.Kind == SymbolRegion {
			return cur
		}
	}
	return nil
}
