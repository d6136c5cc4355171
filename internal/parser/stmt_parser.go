package parser

import (
	"bslcheck/internal/ast"
	"bslcheck/internal/diag"
	"bslcheck/internal/source"
	"bslcheck/internal/token"
)

// parseBlock читает операторы до слова, закрывающего одну из открытых конструкций.
// Span блока тянется от конца заголовка до начала закрывающего слова.
func (p *Parser) parseBlock() ast.Block {
	start := p.lastSpan.End
	var ids []ast.StmtID

	for {
		tok := p.peek()
		if tok.Kind == token.EOF || p.closesOpen(tok.Kind) {
			break
		}
		// заголовок следующего метода: текущий не закрыт
		if tok.Kind == token.KwProcedure || tok.Kind == token.KwFunction ||
			tok.Kind == token.KwAsync && p.peekN(1).Is(token.KwProcedure, token.KwFunction) {
			break
		}
		if isBlockEnd(tok.Kind) || tok.Kind == token.KwThen || tok.Kind == token.KwDo {
			p.advance()
			p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span, "unexpected '"+tok.Text+"'")
			p.eatSemicolon()
			continue
		}
		if id, ok := p.parseStmt(); ok {
			ids = append(ids, id)
		}
	}
	return ast.Block{
		Span:  source.Span{File: p.file.ID, Start: start, End: max(start, p.peek().Span.Start)},
		Stmts: ids,
	}
}

// parseStmt разбирает один оператор. ok=false, если оператора нет
// (пустой ';', область, директива) или он не восстановим.
func (p *Parser) parseStmt() (ast.StmtID, bool) {
	switch p.peek().Kind {
	case token.Semicolon:
		p.advance()
		return ast.NoStmtID, false
	case token.KwIf:
		return p.parseIfStmt(), true
	case token.KwWhile:
		return p.parseWhileStmt(), true
	case token.KwFor:
		return p.parseForStmt(), true
	case token.KwTry:
		return p.parseTryStmt(), true
	case token.KwReturn:
		return p.parseReturnStmt(), true
	case token.KwRaise:
		return p.parseValueStmt(ast.StmtRaise), true
	case token.KwGoto:
		return p.parseGotoStmt(), true
	case token.KwBreak:
		return p.parseValueStmt(ast.StmtBreak), true
	case token.KwContinue:
		return p.parseValueStmt(ast.StmtContinue), true
	case token.KwVar:
		return p.parseLocalVars(), true
	case token.Label:
		if p.peekN(1).Kind == token.Colon {
			return p.parseLabelStmt(), true
		}
		return p.parsePlainStmt(), true
	case token.Annotation:
		a := p.parseAnnotation()
		p.report(diag.SynDirectiveNotAllowed, diag.SevError, a.Span, "annotation is not allowed inside a method body")
		return ast.NoStmtID, false
	case token.PreprocIf, token.PreprocElsIf, token.PreprocElse, token.PreprocEndIf:
		return p.parsePreprocMarker()
	case token.PreprocRegion, token.PreprocEndRegion, token.PreprocUse, token.PreprocOther:
		p.parsePreprocDirective()
		return ast.NoStmtID, false
	default:
		return p.parsePlainStmt(), true
	}
}

// parsePlainStmt: присваивание, вызов процедуры и прочие операторы без вложенных блоков.
func (p *Parser) parsePlainStmt() ast.StmtID {
	first := p.peek()
	rng := p.scanExpr()
	st := ast.Stmt{Kind: ast.StmtPlain, Expr: rng.TokenRange}
	if rng.Empty() {
		// ни одного токена не съели: пропускаем мусор
		tok := p.advance()
		p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span, "unexpected '"+tok.Text+"'")
		st.Span = tok.Span
		st.Flags |= ast.FlagMalformed
		return p.arenas.Stmts.New(st)
	}
	st.Span = first.Span.Cover(p.lastSpan)
	st.Keyword = first.Span
	if rng.bad() || hasInvalid(p.toks[rng.Start:rng.End]) {
		st.Flags |= ast.FlagMalformed
	}
	if rng.Stray {
		p.report(diag.SynUnexpectedToken, diag.SevError, st.Span, "unbalanced ')'")
	}
	p.endStmt(&st)
	return p.arenas.Stmts.New(st)
}

// endStmt проверяет ';' после оператора. Перед закрывающими словами он необязателен.
func (p *Parser) endStmt(st *ast.Stmt) {
	if p.eatSemicolon() {
		return
	}
	k := p.peek().Kind
	if k == token.EOF || isBlockEnd(k) || k.IsPreproc() {
		return
	}
	p.err(diag.SynExpectSemicolon, "expected ';'")
	st.Flags |= ast.FlagMalformed
}

func hasInvalid(toks []token.Token) bool {
	for _, t := range toks {
		if t.Kind == token.Invalid {
			return true
		}
	}
	return false
}

func (p *Parser) parseReturnStmt() ast.StmtID {
	kw := p.advance()
	if !p.inMethod {
		p.report(diag.SynStatementOutOfMethod, diag.SevError, kw.Span, "'"+kw.Text+"' outside of a method")
	}
	return p.finishValueStmt(ast.StmtReturn, kw)
}

// parseValueStmt: ВызватьИсключение, Прервать, Продолжить.
func (p *Parser) parseValueStmt(kind ast.StmtKind) ast.StmtID {
	kw := p.advance()
	return p.finishValueStmt(kind, kw)
}

func (p *Parser) finishValueStmt(kind ast.StmtKind, kw token.Token) ast.StmtID {
	st := ast.Stmt{Kind: kind, Keyword: kw.Span}
	if kind == ast.StmtReturn || kind == ast.StmtRaise {
		rng := p.scanExpr()
		st.Expr = rng.TokenRange
		if rng.bad() {
			st.Flags |= ast.FlagMalformed
		}
	}
	st.Span = kw.Span.Cover(p.lastSpan)
	p.endStmt(&st)
	return p.arenas.Stmts.New(st)
}

func (p *Parser) parseGotoStmt() ast.StmtID {
	kw := p.advance()
	st := ast.Stmt{Kind: ast.StmtGoto, Keyword: kw.Span}
	if lbl, ok := p.expect(token.Label, diag.SynExpectIdentifier, "expected '~Label' after 'Перейти'"); ok {
		st.Name = labelName(lbl.Text)
		st.NameSpan = lbl.Span
	} else {
		st.Flags |= ast.FlagMalformed
	}
	st.Span = kw.Span.Cover(p.lastSpan)
	p.endStmt(&st)
	return p.arenas.Stmts.New(st)
}

func (p *Parser) parseLabelStmt() ast.StmtID {
	lbl := p.advance()
	p.advance() // ':'
	st := ast.Stmt{
		Kind:     ast.StmtLabel,
		Keyword:  lbl.Span,
		Name:     labelName(lbl.Text),
		NameSpan: lbl.Span,
		Span:     lbl.Span.Cover(p.lastSpan),
	}
	return p.arenas.Stmts.New(st)
}

// labelName нормализует '~Метка' в 'метка' для сопоставления.
func labelName(text string) string {
	if len(text) > 0 && text[0] == '~' {
		text = text[1:]
	}
	return token.Fold(text)
}

func (p *Parser) parseLocalVars() ast.StmtID {
	start := p.peek().Span
	ids, sp := p.parseVarNames(nil, false)
	st := ast.Stmt{Kind: ast.StmtVar, Keyword: start, Span: sp, Vars: ids}
	if len(ids) == 0 {
		st.Flags |= ast.FlagMalformed
	}
	return p.arenas.Stmts.New(st)
}
