package parser

import (
	"bslcheck/internal/ast"
	"bslcheck/internal/diag"
	"bslcheck/internal/token"
)

// parseIfStmt: Если ... Тогда ... [ИначеЕсли ... Тогда ...]* [Иначе ...] КонецЕсли
func (p *Parser) parseIfStmt() ast.StmtID {
	ifTok := p.advance()
	st := ast.Stmt{Kind: ast.StmtIf, Keyword: ifTok.Span}
	var payload ast.IfStmt

	kw := ifTok
	for {
		cond, ok := p.parseCondition(token.KwThen, diag.SynMissingThen, "expected 'Тогда'")
		if !ok {
			st.Flags |= ast.FlagMalformed
		}
		p.pushOpen(token.KwElsIf, token.KwElse, token.KwEndIf)
		body := p.parseBlock()
		p.popOpen()
		payload.Branches = append(payload.Branches, ast.CondBranch{Keyword: kw.Span, Cond: cond, Body: body})
		if !p.at(token.KwElsIf) {
			break
		}
		kw = p.advance()
	}

	if p.at(token.KwElse) {
		payload.HasElse = true
		payload.ElseKw = p.advance().Span
		p.pushOpen(token.KwEndIf)
		payload.Else = p.parseBlock()
		p.popOpen()
	}

	if p.at(token.KwEndIf) {
		payload.End = p.advance().Span
	} else {
		p.report(diag.SynUnterminatedBlock, diag.SevError, ifTok.Span, "'"+ifTok.Text+"' is not closed with 'КонецЕсли'")
		st.Flags |= ast.FlagMalformed
	}
	st.Span = ifTok.Span.Cover(p.lastSpan)
	p.eatSemicolon()
	return p.arenas.Stmts.NewIf(st, payload)
}

// parseCondition читает условие до слова then (Тогда/Цикл).
func (p *Parser) parseCondition(then token.Kind, code diag.Code, msg string) (ast.TokenRange, bool) {
	cond := p.scanExpr(then)
	ok := !cond.bad()
	if cond.Empty() {
		p.err(diag.SynExpectExpression, "expected condition")
		ok = false
	}
	if p.at(then) {
		p.advance()
	} else {
		p.err(code, msg)
		ok = false
	}
	return cond.TokenRange, ok
}

// parseWhileStmt: Пока ... Цикл ... КонецЦикла
func (p *Parser) parseWhileStmt() ast.StmtID {
	kw := p.advance()
	st := ast.Stmt{Kind: ast.StmtWhile, Keyword: kw.Span}
	cond, ok := p.parseCondition(token.KwDo, diag.SynMissingDo, "expected 'Цикл'")
	if !ok {
		st.Flags |= ast.FlagMalformed
	}
	st.Expr = cond
	var payload ast.LoopStmt
	p.finishLoop(kw, &st, &payload)
	return p.arenas.Stmts.NewLoop(st, payload)
}

// parseForStmt: Для И = 1 По N Цикл ... | Для Каждого Эл Из Коллекция Цикл ...
func (p *Parser) parseForStmt() ast.StmtID {
	kw := p.advance()
	st := ast.Stmt{Kind: ast.StmtFor, Keyword: kw.Span}
	var payload ast.LoopStmt

	if p.at(token.KwEach) {
		p.advance()
		st.Kind = ast.StmtForEach
		// 'Для Каждого Из Коллекция' без переменной: допустимый обрывок при наборе
		if name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected loop variable"); ok {
			st.Name = name.Text
			st.NameSpan = name.Span
		} else {
			st.Flags |= ast.FlagMalformed
		}
		if _, ok := p.expect(token.KwIn, diag.SynForBadHeader, "expected 'Из'"); !ok {
			st.Flags |= ast.FlagMalformed
		}
		coll := p.scanExpr(token.KwDo)
		payload.From = coll.TokenRange
		if coll.Empty() || coll.bad() {
			st.Flags |= ast.FlagMalformed
		}
	} else {
		if name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected loop variable"); ok {
			st.Name = name.Text
			st.NameSpan = name.Span
		} else {
			st.Flags |= ast.FlagMalformed
		}
		if _, ok := p.expect(token.Assign, diag.SynForBadHeader, "expected '=' in 'Для' header"); !ok {
			st.Flags |= ast.FlagMalformed
		}
		from := p.scanExpr(token.KwTo)
		payload.From = from.TokenRange
		if _, ok := p.expect(token.KwTo, diag.SynForBadHeader, "expected 'По'"); !ok {
			st.Flags |= ast.FlagMalformed
		}
		to := p.scanExpr(token.KwDo)
		payload.To = to.TokenRange
		if from.Empty() || to.Empty() || from.bad() || to.bad() {
			st.Flags |= ast.FlagMalformed
		}
	}

	if p.at(token.KwDo) {
		p.advance()
	} else {
		p.err(diag.SynMissingDo, "expected 'Цикл'")
		st.Flags |= ast.FlagMalformed
	}
	p.finishLoop(kw, &st, &payload)
	return p.arenas.Stmts.NewLoop(st, payload)
}

func (p *Parser) finishLoop(kw token.Token, st *ast.Stmt, payload *ast.LoopStmt) {
	p.pushOpen(token.KwEndDo)
	payload.Body = p.parseBlock()
	p.popOpen()
	if p.at(token.KwEndDo) {
		payload.End = p.advance().Span
	} else {
		p.report(diag.SynUnterminatedBlock, diag.SevError, kw.Span, "'"+kw.Text+"' is not closed with 'КонецЦикла'")
		st.Flags |= ast.FlagMalformed
	}
	st.Span = kw.Span.Cover(p.lastSpan)
	p.eatSemicolon()
}

// parseTryStmt: Попытка ... Исключение ... КонецПопытки
func (p *Parser) parseTryStmt() ast.StmtID {
	kw := p.advance()
	st := ast.Stmt{Kind: ast.StmtTry, Keyword: kw.Span}
	var payload ast.TryStmt

	p.pushOpen(token.KwExcept, token.KwEndTry)
	payload.Body = p.parseBlock()
	p.popOpen()

	if p.at(token.KwExcept) {
		payload.ExceptKw = p.advance().Span
		p.pushOpen(token.KwEndTry)
		payload.Except = p.parseBlock()
		p.popOpen()
	} else {
		p.err(diag.SynUnexpectedToken, "expected 'Исключение'")
		st.Flags |= ast.FlagMalformed
	}

	if p.at(token.KwEndTry) {
		payload.End = p.advance().Span
	} else {
		p.report(diag.SynUnterminatedBlock, diag.SevError, kw.Span, "'"+kw.Text+"' is not closed with 'КонецПопытки'")
		st.Flags |= ast.FlagMalformed
	}
	st.Span = kw.Span.Cover(p.lastSpan)
	p.eatSemicolon()
	return p.arenas.Stmts.NewTry(st, payload)
}
