package checks

import (
	"bslcheck/internal/ast"
	"bslcheck/internal/diag"
	"bslcheck/internal/rules"
	"bslcheck/internal/source"
	"bslcheck/internal/token"
)

func unusedLocalVariable() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "UnusedLocalVariable",
		Name:               "Неиспользуемая локальная переменная",
		Message:            "Значение переменной \"%s\" не используется",
		Type:               rules.TypeCodeSmell,
		Severity:           rules.SeverityMajor,
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagBrainOverload, rules.TagBadPractice, rules.TagUnused},
		MinutesToFix:       1,
		New:                func() rules.Rule { return &unusedLocal{} },
	}
}

type localVar struct {
	name string
	decl source.Span
}

type unusedLocal struct {
	tree   *ast.Builder
	module map[string]bool
}

func (r *unusedLocal) Run(p *rules.Pass) error {
	r.tree = p.AST()
	if r.tree == nil {
		return nil
	}
	r.module = map[string]bool{}
	for _, id := range r.tree.File.Items {
		it := r.tree.Items.Get(id)
		if it == nil || it.Kind != ast.ItemVars {
			continue
		}
		for _, vid := range it.Vars {
			if v := r.tree.Items.Var(vid); v != nil {
				r.module[token.Fold(v.Name)] = true
			}
		}
	}
	for _, m := range r.tree.Methods() {
		if m.Malformed {
			continue
		}
		for _, v := range r.unused(m) {
			p.Report(p.Diagnostic(v.decl, v.name).WithTag(diag.TagUnnecessary))
		}
	}
	return nil
}

// unused returns locals of m whose value is never read, in declaration order.
// Чтение: любой идентификатор в теле, кроме левой части присваивания и Перем.
func (r *unusedLocal) unused(m *ast.Method) []localVar {
	f := r.tree.File
	params := make(map[string]bool, len(m.Params))
	for _, prm := range m.Params {
		params[token.Fold(prm.Name)] = true
	}
	var vars []localVar
	declared := map[string]bool{}
	targets := map[uint32]bool{}
	var varStmts []source.Span
	add := func(name string, sp source.Span) {
		k := token.Fold(name)
		if params[k] || r.module[k] || declared[k] {
			return
		}
		declared[k] = true
		vars = append(vars, localVar{name: name, decl: sp})
	}
	r.tree.WalkStmts(m.Body, func(_ ast.StmtID, st *ast.Stmt) bool {
		switch st.Kind {
		case ast.StmtVar:
			varStmts = append(varStmts, st.Span)
			for _, vid := range st.Vars {
				if v := r.tree.Items.Var(vid); v != nil {
					add(v.Name, v.Span)
				}
			}
		case ast.StmtPlain:
			toks := f.Slice(st.Expr)
			if len(toks) >= 2 && toks[0].Kind == token.Ident && toks[1].Kind == token.Assign {
				targets[toks[0].Span.Start] = true
				add(toks[0].Text, toks[0].Span)
			}
		}
		return true
	})
	if len(vars) == 0 {
		return nil
	}
	read := map[string]bool{}
	for _, t := range tokensIn(f, m.Body.Span) {
		if t.Kind != token.Ident || targets[t.Span.Start] || insideAny(varStmts, t.Span) {
			continue
		}
		read[token.Fold(t.Text)] = true
	}
	var out []localVar
	for _, v := range vars {
		if !read[token.Fold(v.name)] {
			out = append(out, v)
		}
	}
	return out
}

func insideAny(spans []source.Span, sp source.Span) bool {
	for _, s := range spans {
		if s.ContainsSpan(sp) {
			return true
		}
	}
	return false
}
