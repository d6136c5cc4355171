package parser

import (
	"bslcheck/internal/ast"
	"bslcheck/internal/diag"
	"bslcheck/internal/token"
)

// parsePreprocMarker: #Если/#ИначеЕсли/#Иначе/#КонецЕсли как плоский оператор.
// Ветви собираются позже, анализом потока, в пределах одного блока.
func (p *Parser) parsePreprocMarker() (ast.StmtID, bool) {
	tok := p.advance()
	st := ast.Stmt{Kind: ast.StmtPreproc, Keyword: tok.Span, Preproc: tok.Kind}

	switch tok.Kind {
	case token.PreprocIf:
		p.preprocDepth++
	case token.PreprocElsIf, token.PreprocElse, token.PreprocEndIf:
		if p.preprocDepth == 0 {
			p.report(diag.SynUnexpectedPreproc, diag.SevError, tok.Span, "'"+tok.Text+"' without matching #Если")
			st.Flags |= ast.FlagMalformed
		} else if tok.Kind == token.PreprocEndIf {
			p.preprocDepth--
		}
	}

	if tok.Kind == token.PreprocIf || tok.Kind == token.PreprocElsIf {
		start := p.idx()
		for !p.at(token.EOF) && !p.at(token.KwThen) && !newlineBefore(p.peek()) {
			p.advance()
		}
		st.Expr = ast.TokenRange{Start: start, End: p.idx()}
		if p.at(token.KwThen) && !newlineBefore(p.peek()) {
			p.advance()
		} else {
			p.err(diag.SynMissingThen, "expected 'Тогда' in preprocessor condition")
			st.Flags |= ast.FlagMalformed
		}
	}
	st.Span = tok.Span.Cover(p.lastSpan)
	return p.arenas.Stmts.New(st), true
}

// parsePreprocDirective: #Область, #КонецОбласти, #Использовать и прочие инструкции.
func (p *Parser) parsePreprocDirective() {
	tok := p.advance()
	f := p.arenas.File
	switch tok.Kind {
	case token.PreprocRegion:
		r := ast.Region{Open: tok.Span, Parent: -1}
		if n := len(p.regionStack); n > 0 {
			r.Parent = p.regionStack[n-1]
		}
		if !p.at(token.EOF) && !newlineBefore(p.peek()) {
			name := p.advance()
			r.Name = name.Text
			r.NameSpan = name.Span
			r.Open = r.Open.Cover(name.Span)
			p.skipLine()
		} else {
			p.report(diag.SynExpectIdentifier, diag.SevError, tok.Span, "expected region name")
		}
		r.Span = r.Open
		f.Regions = append(f.Regions, r)
		p.regionStack = append(p.regionStack, len(f.Regions)-1)
	case token.PreprocEndRegion:
		n := len(p.regionStack)
		if n == 0 {
			p.report(diag.SynUnexpectedEndRegion, diag.SevError, tok.Span, "#КонецОбласти without matching #Область")
			return
		}
		r := &f.Regions[p.regionStack[n-1]]
		p.regionStack = p.regionStack[:n-1]
		r.Close = tok.Span
		r.Span = r.Open.Cover(tok.Span)
		r.Closed = true
	case token.PreprocUse:
		// #Использовать библиотека: только в сценариях OneScript
		p.skipLine()
	}
}
