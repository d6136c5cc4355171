package symbols

// Visitor is the traversal surface shared by tree-based rules.
//
// A rule that overrides one of the methods must either call WalkChildren
// itself or accept that the subtree below that symbol is not visited.
type Visitor interface {
	VisitModule(s *Symbol)
	VisitRegion(s *Symbol)
	VisitMethod(s *Symbol)
	VisitVariable(s *Symbol)
}

// Walk dispatches s to the Visit method matching its kind.
func Walk(v Visitor, s *Symbol) {
	if s == nil {
		return
	}
	switch s.Kind {
	case SymbolModule:
		v.VisitModule(s)
	case SymbolRegion:
		v.VisitRegion(s)
	case SymbolMethod:
		v.VisitMethod(s)
	case SymbolVariable:
		v.VisitVariable(s)
	}
}

// WalkChildren walks the owned children of s in source order.
func WalkChildren(v Visitor, s *Symbol) {
	for _, c := range s.Children {
		Walk(v, c)
	}
}

// BaseVisitor recurses into children by default. Встраивающий тип задаёт
// Outer = себя, иначе рекурсия пойдёт мимо его переопределений.
type BaseVisitor struct {
	Outer Visitor
}

func (b *BaseVisitor) outer() Visitor {
	if b.Outer != nil {
		return b.Outer
	}
	return b
}

func (b *BaseVisitor) VisitModule(s *Symbol)   { WalkChildren(b.outer(), s) }
func (b *BaseVisitor) VisitRegion(s *Symbol)   { WalkChildren(b.outer(), s) }
func (b *BaseVisitor) VisitMethod(s *Symbol)   { WalkChildren(b.outer(), s) }
func (b *BaseVisitor) VisitVariable(s *Symbol) { WalkChildren(b.outer(), s) }

// Inspect calls fn for s and its descendants in pre-order; returning false
// skips the children of that symbol.
func Inspect(s *Symbol, fn func(*Symbol) bool) {
	if s == nil || !fn(s) {
		return
	}
	for _, c := range s.Children {
		Inspect(c, fn)
	}
}
