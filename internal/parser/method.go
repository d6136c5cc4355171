package parser

import (
	"strings"

	"bslcheck/internal/ast"
	"bslcheck/internal/diag"
	"bslcheck/internal/source"
	"bslcheck/internal/token"
)

// parseAnnotation читает '&НаСервере' или '&Перед("Имя")'.
func (p *Parser) parseAnnotation() ast.Annotation {
	tok := p.advance()
	name := strings.TrimPrefix(tok.Text, "&")
	a := ast.Annotation{
		Name:      name,
		Span:      tok.Span,
		Directive: token.LookupDirective(name),
	}
	if p.at(token.LParen) && !newlineBefore(p.peek()) {
		p.advance()
		args := p.scanExpr(token.RParen)
		a.Args = args.TokenRange
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after annotation arguments"); ok {
			a.Span = a.Span.Cover(p.lastSpan)
		}
	}
	return a
}

// parseMethod разбирает 'Процедура'/'Функция' до закрывающего слова.
func (p *Parser) parseMethod(annots []ast.Annotation) ast.ItemID {
	m := ast.Method{Annotations: annots}
	start := p.peek().Span
	if p.at(token.KwAsync) {
		p.advance()
		m.Async = true
	}
	kw := p.advance()
	m.IsFunction = kw.Kind == token.KwFunction

	if name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected method name"); ok {
		m.Name = name.Text
		m.NameSpan = name.Span
	} else {
		m.Malformed = true
		m.NameSpan = kw.Span
	}

	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after method name"); ok {
		m.Params = p.parseParams()
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close parameter list"); !ok {
			m.Malformed = true
			p.skipLine()
		}
	} else {
		m.Malformed = true
		p.skipLine()
	}
	if p.at(token.KwExport) {
		p.advance()
		m.Export = true
	}
	m.Header = start.Cover(p.lastSpan)

	wasInMethod := p.inMethod
	p.inMethod = true
	p.pushOpen(token.KwEndProcedure, token.KwEndFunction)
	m.Body = p.parseBlock()
	p.popOpen()
	p.inMethod = wasInMethod

	want := token.KwEndProcedure
	if m.IsFunction {
		want = token.KwEndFunction
	}
	switch {
	case p.at(want):
		m.End = p.advance().Span
	case p.at_or(token.KwEndProcedure, token.KwEndFunction):
		end := p.advance()
		m.End = end.Span
		p.report(diag.SynUnexpectedToken, diag.SevError, end.Span, "expected '"+want.String()+"', got '"+end.Text+"'")
		m.Malformed = true
	default:
		p.report(diag.SynUnterminatedMethod, diag.SevError, m.NameSpan, "method '"+m.Name+"' is not closed with '"+want.String()+"'")
		m.Malformed = true
	}
	m.Span = start.Cover(p.lastSpan)
	p.eatSemicolon()

	if len(annots) > 0 {
		m.Span = annots[0].Span.Cover(m.Span)
	}
	return p.arenas.Items.NewMethod(m)
}

// parseParams читает список параметров до ')'.
func (p *Parser) parseParams() []ast.Param {
	var params []ast.Param
	for !p.at_or(token.RParen, token.EOF) {
		var prm ast.Param
		start := p.peek().Span
		if p.at(token.KwVal) {
			p.advance()
			prm.ByVal = true
		}
		name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
		if !ok {
			return params
		}
		prm.Name = name.Text
		prm.Span = start.Cover(name.Span)
		if p.at(token.Assign) {
			p.advance()
			def := p.scanExpr(token.Comma, token.RParen)
			if def.Empty() {
				p.err(diag.SynExpectExpression, "expected default value")
			}
			prm.HasDefault = true
			prm.Default = def.TokenRange
			prm.Span = prm.Span.Cover(p.lastSpan)
		}
		params = append(params, prm)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return params
}

// parseVarNames читает 'Перем А Экспорт, Б;' и возвращает объявленные имена.
func (p *Parser) parseVarNames(annots []ast.Annotation, allowExport bool) ([]ast.VarID, source.Span) {
	kw := p.advance() // Перем
	var ids []ast.VarID
	for {
		name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected variable name")
		if !ok {
			break
		}
		v := ast.VarDecl{Name: name.Text, Span: name.Span, Annotations: annots}
		if p.at(token.KwExport) {
			exp := p.advance()
			if allowExport {
				v.Export = true
			} else {
				p.report(diag.SynUnexpectedToken, diag.SevError, exp.Span, "local variable cannot be exported")
			}
		}
		ids = append(ids, p.arenas.Items.NewVar(v))
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	sp := kw.Span.Cover(p.lastSpan)
	if !p.eatSemicolon() {
		p.err(diag.SynExpectSemicolon, "expected ';' after variable declaration")
		p.skipLine()
	}
	if len(annots) > 0 {
		sp = annots[0].Span.Cover(sp)
	}
	return ids, sp
}

func (p *Parser) parseModuleVars(annots []ast.Annotation) ast.ItemID {
	ids, sp := p.parseVarNames(annots, true)
	return p.arenas.Items.NewVars(sp, ids)
}
