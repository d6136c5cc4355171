package parser

import (
	"slices"

	"bslcheck/internal/ast"
	"bslcheck/internal/diag"
	"bslcheck/internal/source"
	"bslcheck/internal/token"
)

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind == token.EOF {
		return tok
	}
	p.pos++
	p.lastSpan = tok.Span
	return tok
}

// getDiagnosticSpan: на EOF указываем сразу за последним токеном.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect: ожидаем конкретный токен. Если нет, репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.peek().Text}, false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if sev == diag.SevError {
		limited := p.opts.Enough(p.errors)
		p.errors++
		if limited {
			return false // достигли максимального количества ошибок
		}
	}
	if p.opts.Reporter == nil {
		return false
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil, nil)
	return true
}

// newlineBefore: токен начинает новую строку.
func newlineBefore(tok token.Token) bool {
	for _, tr := range tok.Leading {
		if tr.Kind == token.TriviaNewline {
			return true
		}
	}
	return false
}

// skipLine съедает токены до конца текущей строки.
func (p *Parser) skipLine() {
	for !p.at(token.EOF) && !newlineBefore(p.peek()) {
		p.advance()
	}
}

// eatSemicolon съедает необязательный ';'.
func (p *Parser) eatSemicolon() bool {
	if p.at(token.Semicolon) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) pushOpen(kinds ...token.Kind) {
	p.open = append(p.open, kinds)
}

func (p *Parser) popOpen() {
	if len(p.open) > 0 {
		p.open = p.open[:len(p.open)-1]
	}
}

// closesOpen: слово закрывает одну из охватывающих конструкций.
func (p *Parser) closesOpen(k token.Kind) bool {
	for i := len(p.open) - 1; i >= 0; i-- {
		if slices.Contains(p.open[i], k) {
			return true
		}
	}
	return false
}

// isBlockEnd: ключевые слова, которые завершают или разделяют блоки.
func isBlockEnd(k token.Kind) bool {
	switch k {
	case token.KwElse, token.KwElsIf, token.KwEndIf, token.KwEndDo, token.KwExcept, token.KwEndTry,
		token.KwEndProcedure, token.KwEndFunction:
		return true
	}
	return false
}

// isStmtStart: ключевые слова, с которых начинается оператор.
func isStmtStart(k token.Kind) bool {
	switch k {
	case token.KwIf, token.KwWhile, token.KwFor, token.KwTry, token.KwReturn, token.KwRaise,
		token.KwGoto, token.KwBreak, token.KwContinue, token.KwVar, token.KwProcedure, token.KwFunction:
		return true
	}
	return false
}

// isExprBreaker: токен не может встретиться внутри выражения.
func isExprBreaker(k token.Kind) bool {
	switch {
	case k == token.Semicolon, k == token.EOF, k == token.KwThen, k == token.KwDo,
		k == token.Annotation, k == token.Label, k == token.KwExport:
		return true
	case k.IsPreproc(), isBlockEnd(k), isStmtStart(k):
		return true
	}
	return false
}

// exprRange: диапазон выражения и признаки его порчи.
type exprRange struct {
	ast.TokenRange
	Stray    bool // лишняя ')'
	Unclosed bool
}

func (r exprRange) bad() bool { return r.Stray || r.Unclosed }

// scanExpr съедает выражение до одного из stop на нулевой глубине скобок.
// Выражение не разбирается, возвращается диапазон токенов.
func (p *Parser) scanExpr(stop ...token.Kind) (rng exprRange) {
	rng.Start = p.idx()
	depth := 0
	prev := token.Invalid
	for !p.at(token.EOF) {
		k := p.peek().Kind
		// после точки ключевые слова: имена свойств: Запрос.Выполнить()
		if prev != token.Dot {
			if depth == 0 && slices.Contains(stop, k) {
				break
			}
			if isExprBreaker(k) {
				break
			}
		}
		switch k {
		case token.LParen, token.LBracket:
			depth++
		case token.RParen, token.RBracket:
			if depth == 0 {
				if slices.Contains(stop, k) {
					rng.End = p.idx()
					return rng
				}
				rng.Stray = true
			} else {
				depth--
			}
		}
		prev = k
		p.advance()
	}
	rng.End = p.idx()
	if depth > 0 {
		rng.Unclosed = true
		p.err(diag.SynUnclosedParen, "expected ')'")
	}
	return rng
}
