package parser

import (
	"slices"

	"bslcheck/internal/ast"
	"bslcheck/internal/diag"
	"bslcheck/internal/lexer"
	"bslcheck/internal/source"
	"bslcheck/internal/token"
)

type Options struct {
	MaxErrors uint
	Reporter  diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough(current uint) bool {
	if o.MaxErrors == 0 {
		return false
	}
	return current >= o.MaxErrors
}

type Result struct {
	Tree   *ast.Builder
	Errors uint
}

// File is a shortcut for r.Tree.File.
func (r Result) File() *ast.File {
	return r.Tree.File
}

// Parser: состояние парсера на один файл
type Parser struct {
	file     *source.File
	toks     []token.Token
	pos      int
	arenas   *ast.Builder
	opts     Options
	errors   uint
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики

	// open: ожидаемые закрывающие ключевые слова охватывающих конструкций
	open         [][]token.Kind
	regionStack  []int
	preprocDepth int
	inMethod     bool
}

// ParseFile: входная точка для разбора одного файла.
// Лексические и синтаксические ошибки уходят в opts.Reporter; дерево строится всегда.
func ParseFile(file *source.File, opts Options) Result {
	p := Parser{
		file:     file,
		arenas:   ast.NewBuilder(file.ID, ast.Hints{Stmts: uint(len(file.Content)/24 + 16)}), // #nosec G115 -- len is non-negative
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}

	lx := lexer.New(file, lexer.Options{Reporter: &countingReporter{p: &p}})
	p.toks = lx.All()

	f := p.arenas.File
	f.Tokens = p.toks
	f.Comments = lx.Comments()

	p.parseItems()

	f.Span = source.Span{File: file.ID, Start: 0, End: p.toks[len(p.toks)-1].Span.End}
	f.Malformed = p.errors > 0
	return Result{Tree: p.arenas, Errors: p.errors}
}

// countingReporter считает ошибки лексера вместе с ошибками парсера.
type countingReporter struct{ p *Parser }

func (r *countingReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.p.report(code, sev, primary, msg)
}

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) at_or(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// idx: индекс текущего токена для TokenRange.
func (p *Parser) idx() uint32 {
	return uint32(p.pos) // #nosec G115 -- токенов не больше, чем байт в файле
}

// parseItems: основной цикл верхнего уровня модуля.
func (p *Parser) parseItems() {
	var annots []ast.Annotation
	for !p.at(token.EOF) {
		tok := p.peek()
		if tok.Kind != token.Annotation && len(annots) > 0 &&
			!p.at_or(token.KwProcedure, token.KwFunction, token.KwAsync, token.KwVar) {
			p.report(diag.SynUnexpectedToken, diag.SevError, annots[0].Span, "annotation must precede a method or variable declaration")
			annots = nil
		}

		switch tok.Kind {
		case token.Annotation:
			annots = append(annots, p.parseAnnotation())
		case token.KwAsync:
			if next := p.peekN(1).Kind; next == token.KwProcedure || next == token.KwFunction {
				p.arenas.PushItem(p.parseMethod(annots))
				annots = nil
				continue
			}
			p.parseTopStmt()
		case token.KwProcedure, token.KwFunction:
			p.arenas.PushItem(p.parseMethod(annots))
			annots = nil
		case token.KwVar:
			p.arenas.PushItem(p.parseModuleVars(annots))
			annots = nil
		case token.KwEndProcedure, token.KwEndFunction, token.KwElse, token.KwElsIf, token.KwEndIf,
			token.KwEndDo, token.KwExcept, token.KwEndTry, token.KwThen, token.KwDo:
			p.resyncTop()
		default:
			p.parseTopStmt()
		}
	}
	p.finish()
}

func (p *Parser) parseTopStmt() {
	id, ok := p.parseStmt()
	if !ok {
		return
	}
	st := p.arenas.Stmts.Get(id)
	p.arenas.PushItem(p.arenas.Items.NewStmt(st.Span, id))
	f := p.arenas.File
	f.Body.Stmts = append(f.Body.Stmts, id)
	if len(f.Body.Stmts) == 1 {
		f.Body.Span = st.Span
	} else {
		f.Body.Span = f.Body.Span.Cover(st.Span)
	}
}

// resyncTop: восстановление после лишнего закрывающего слова на верхнем уровне.
func (p *Parser) resyncTop() {
	tok := p.advance()
	p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span, "unexpected '"+tok.Text+"' outside of a block")
	if p.at(token.Semicolon) {
		p.advance()
	}
}

// finish закрывает незавершённые области и проверяет баланс #Если.
func (p *Parser) finish() {
	eof := p.peek().Span
	f := p.arenas.File
	for i := len(p.regionStack) - 1; i >= 0; i-- {
		r := &f.Regions[p.regionStack[i]]
		r.Span = r.Open.Cover(eof)
		p.report(diag.SynUnterminatedRegion, diag.SevError, r.Open, "region '"+r.Name+"' is not closed with #КонецОбласти")
	}
	p.regionStack = nil
	if p.preprocDepth > 0 {
		p.report(diag.SynUnterminatedPreproc, diag.SevError, eof, "#Если is not closed with #КонецЕсли")
	}
}
