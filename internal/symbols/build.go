package symbols

import (
	"cmp"
	"slices"

	"bslcheck/internal/ast"
	"bslcheck/internal/source"
)

// Tree is the symbol index of one module.
type Tree struct {
	Module *Symbol
	AST    *ast.Builder
	// Partial is set when the tree was built from a parse with errors.
	Partial bool
}

// ModuleOnly returns a tree holding just the module symbol; used when the
// parse tree is unusable.
func ModuleOnly(name string, span source.Span) *Tree {
	return &Tree{Module: &Symbol{Kind: SymbolModule, Name: name, Span: span, NameSpan: source.Span{File: span.File}}}
}

// Build indexes a parsed module. Символы вкладываются по охвату диапазонов:
// методы и переменные модуля попадают в самую внутреннюю область.
func Build(name string, tree *ast.Builder) *Tree {
	if tree == nil || tree.File == nil {
		return ModuleOnly(name, source.Span{})
	}
	f := tree.File
	module := &Symbol{Kind: SymbolModule, Name: name, Span: f.Span, NameSpan: source.Span{File: f.Source}}

	var flat []*Symbol
	for i := range f.Regions {
		r := &f.Regions[i]
		flat = append(flat, &Symbol{
			Kind:     SymbolRegion,
			Name:     r.Name,
			Span:     r.Span,
			NameSpan: r.NameSpan,
			Region:   &RegionInfo{Decl: r},
		})
	}
	for _, id := range f.Items {
		item := tree.Items.Get(id)
		switch item.Kind {
		case ast.ItemMethod:
			flat = append(flat, methodSymbol(tree, tree.Items.Method(item.Method)))
		case ast.ItemVars:
			for _, vid := range item.Vars {
				v := tree.Items.Var(vid)
				flat = append(flat, &Symbol{
					Kind:     SymbolVariable,
					Name:     v.Name,
					Span:     v.Span,
					NameSpan: v.Span,
					Var:      &VarInfo{Kind: VarModule, Export: v.Export},
				})
			}
		}
	}

	// области раньше методов при равном начале
	slices.SortStableFunc(flat, func(a, b *Symbol) int {
		if c := cmp.Compare(a.Span.Start, b.Span.Start); c != 0 {
			return c
		}
		return cmp.Compare(rank(a), rank(b))
	})

	stack := []*Symbol{module}
	for _, s := range flat {
		for len(stack) > 1 && !contains(stack[len(stack)-1], s) {
			stack = stack[:len(stack)-1]
		}
		adopt(stack[len(stack)-1], s)
		if s.Kind == SymbolRegion || s.Kind == SymbolMethod {
			stack = append(stack, s)
		}
	}

	walkSymbols(module, func(s *Symbol) {
		if s.Kind == SymbolMethod {
			slices.SortStableFunc(s.Children, func(a, b *Symbol) int { return cmp.Compare(a.Span.Start, b.Span.Start) })
		}
	})
	return &Tree{Module: module, AST: tree, Partial: f.Malformed}
}

func rank(s *Symbol) int {
	if s.Kind == SymbolRegion {
		return 0
	}
	return 1
}

func contains(parent, child *Symbol) bool {
	return parent.Span.ContainsSpan(child.Span) || parent.Span.Contains(child.Span.Start)
}

func adopt(owner, child *Symbol) {
	child.Owner = owner
	owner.Children = append(owner.Children, child)
}

func methodSymbol(tree *ast.Builder, m *ast.Method) *Symbol {
	sym := &Symbol{
		Kind:     SymbolMethod,
		Name:     m.Name,
		Span:     m.Span,
		NameSpan: m.NameSpan,
		Method: &MethodInfo{
			IsFunction: m.IsFunction,
			Export:     m.Export,
			Async:      m.Async,
			Directives: m.Directives(),
			Params:     m.Params,
			Decl:       m,
		},
	}
	for _, prm := range m.Params {
		adopt(sym, &Symbol{
			Kind:     SymbolVariable,
			Name:     prm.Name,
			Span:     prm.Span,
			NameSpan: prm.Span,
			Var:      &VarInfo{Kind: VarParam},
		})
	}
	// Перем внутри метода допустим только на верхнем уровне тела
	for _, id := range m.Body.Stmts {
		st := tree.Stmts.Get(id)
		if st == nil || st.Kind != ast.StmtVar {
			continue
		}
		for _, vid := range st.Vars {
			v := tree.Items.Var(vid)
			adopt(sym, &Symbol{
				Kind:     SymbolVariable,
				Name:     v.Name,
				Span:     v.Span,
				NameSpan: v.Span,
				Var:      &VarInfo{Kind: VarLocal},
			})
		}
	}
	return sym
}

func walkSymbols(s *Symbol, fn func(*Symbol)) {
	fn(s)
	for _, c := range s.Children {
		walkSymbols(c, fn)
	}
}
