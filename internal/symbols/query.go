package symbols

import (
	"bslcheck/internal/token"
)

// ChildrenFlat returns every descendant of the module in pre-order, module excluded.
func (t *Tree) ChildrenFlat() []*Symbol {
	var out []*Symbol
	Inspect(t.Module, func(s *Symbol) bool {
		if s != t.Module {
			out = append(out, s)
		}
		return true
	})
	return out
}

// Methods returns the methods in source order.
func (t *Tree) Methods() []*Symbol {
	return t.collect(SymbolMethod)
}

// RegionsFlat returns all regions, nested ones included, in source order.
func (t *Tree) RegionsFlat() []*Symbol {
	return t.collect(SymbolRegion)
}

// ModuleVariables returns module-level variables.
func (t *Tree) ModuleVariables() []*Symbol {
	var out []*Symbol
	for _, s := range t.collect(SymbolVariable) {
		if s.Var.Kind == VarModule {
			out = append(out, s)
		}
	}
	return out
}

func (t *Tree) collect(kind SymbolKind) []*Symbol {
	var out []*Symbol
	Inspect(t.Module, func(s *Symbol) bool {
		if s.Kind == kind {
			out = append(out, s)
		}
		return true
	})
	return out
}

// MethodByName finds a method ignoring case, as the platform does.
func (t *Tree) MethodByName(name string) (*Symbol, bool) {
	key := token.Fold(name)
	for _, m := range t.Methods() {
		if token.Fold(m.Name) == key {
			return m, true
		}
	}
	return nil, false
}

// VariablesByName returns every variable named name (module and local).
func (t *Tree) VariablesByName(name string) []*Symbol {
	key := token.Fold(name)
	var out []*Symbol
	for _, s := range t.collect(SymbolVariable) {
		if token.Fold(s.Name) == key {
			out = append(out, s)
		}
	}
	return out
}

// MethodAt returns the method whose declaration covers off.
func (t *Tree) MethodAt(off uint32) (*Symbol, bool) {
	for _, m := range t.Methods() {
		if m.Span.Contains(off) {
			return m, true
		}
	}
	return nil, false
}
