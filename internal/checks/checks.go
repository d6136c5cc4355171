// Package checks is the built-in rule catalog.
//
// Каждое правило живёт в своём файле: дескриптор, тип правила и Run.
// Правила с быстрыми исправлениями дополнительно реализуют rules.QuickFixer.
package checks

import (
	"errors"
	"sort"
	"strings"

	"bslcheck/internal/ast"
	"bslcheck/internal/source"
	"bslcheck/internal/token"

	"bslcheck/internal/rules"
)

// All returns the descriptors of every built-in rule in catalog order.
func All() []*rules.Descriptor {
	return []*rules.Descriptor{
		allFunctionPathMustHaveReturn(),
		unreachableCode(),
		ifElseDuplicatedCodeBlock(),
		ifElseDuplicatedCondition(),
		emptyCodeBlock(),
		emptyRegion(),
		codeOutOfRegion(),
		nestedStatements(),
		tooManyReturns(),
		ternaryOperatorUsage(),
		usingGoto(),
		procedureReturnsValue(),
		exportVariables(),
		unusedLocalVariable(),
		lineLength(),
		consecutiveEmptyLines(),
		spaceAtStartComment(),
		canonicalSpellingKeywords(),
		serverSideExportFormMethod(),
		usingModalWindows(),
		deprecatedTypeManagedForm(),
	}
}

// Register adds the built-in rules to reg.
func Register(reg *rules.Registry) error {
	var errs []error
	for _, d := range All() {
		if err := reg.Register(d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewRegistry returns a registry holding the built-in rules.
func NewRegistry() *rules.Registry {
	reg := rules.NewRegistry()
	reg.MustRegister(All()...)
	return reg
}

// body is one analyzable code block: a method body or the module body (method nil).
type body struct {
	method *ast.Method
	block  ast.Block
}

func bodies(tree *ast.Builder) []body {
	var out []body
	for _, m := range tree.Methods() {
		out = append(out, body{method: m, block: m.Body})
	}
	if len(tree.File.Body.Stmts) > 0 {
		out = append(out, body{block: tree.File.Body})
	}
	return out
}

// walkAll visits every statement of every body.
func walkAll(tree *ast.Builder, fn func(id ast.StmtID, st *ast.Stmt) bool) {
	for _, b := range bodies(tree) {
		tree.WalkStmts(b.block, fn)
	}
}

// tokensIn returns the significant tokens lying inside sp.
func tokensIn(f *ast.File, sp source.Span) []token.Token {
	toks := f.Tokens
	i := sort.Search(len(toks), func(i int) bool { return toks[i].Span.Start >= sp.Start })
	j := i
	for j < len(toks) && toks[j].Kind != token.EOF && toks[j].Span.End <= sp.End {
		j++
	}
	return toks[i:j]
}

// key folds token texts so that spacing and letter case do not matter.
func key(toks []token.Token) string {
	var sb strings.Builder
	for i, t := range toks {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if t.Kind == token.StringLit {
			sb.WriteString(t.Text)
			continue
		}
		sb.WriteString(token.Fold(t.Text))
	}
	return sb.String()
}

// stmtsSpan covers the statements of b; empty blocks give their own span.
func stmtsSpan(tree *ast.Builder, b ast.Block) source.Span {
	if len(b.Stmts) == 0 {
		return b.Span
	}
	first := tree.Stmts.Get(b.Stmts[0])
	last := tree.Stmts.Get(b.Stmts[len(b.Stmts)-1])
	return first.Span.Cover(last.Span)
}

// matchParen returns the index of the token closing the '(' at open, or -1.
func matchParen(toks []token.Token, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i].Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			if depth == 0 {
				return i
			}
		case token.EOF:
			return -1
		}
	}
	return -1
}

// lineStart returns the offset of the 1-based line.
func lineStart(f *source.File, line uint32) uint32 {
	return f.LineSpan(line - 1).Start
}
