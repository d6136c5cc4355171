package lexer

import (
	"bslcheck/internal/diag"
	"bslcheck/internal/token"
)

// scanIdentOrKeyword сканирует [Ident] и проверяет через LookupKeyword.
// Token.Text: ровно исходный срез, регистр не меняется.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	if !lx.scanIdentTail() {
		// не буква: неизвестный символ (в т.ч. битый UTF-8)
		lx.bumpRune()
		if lx.cursor.Off == uint32(start) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unknown character")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.file.Text(sp)}
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.file.Text(sp)
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// scanPrefixed читает '&Имя' или '~Имя'.
func (lx *Lexer) scanPrefixed(kind token.Kind) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // & или ~
	if !lx.scanIdentTail() {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "expected a name after '"+string(lx.file.Content[sp.Start])+"'")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.file.Text(sp)}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.file.Text(sp)}
}

// scanPreproc читает '#' и слово инструкции: "#Область", "# Если".
func (lx *Lexer) scanPreproc() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	for lx.cursor.Peek() == ' ' || lx.cursor.Peek() == '\t' {
		lx.cursor.Bump()
	}
	wordStart := lx.cursor.Off
	if !lx.scanIdentTail() {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.PreprocOther, Span: sp, Text: lx.file.Text(sp)}
	}
	sp := lx.cursor.SpanFrom(start)
	word := string(lx.file.Content[wordStart:sp.End])
	kind := token.LookupPreproc(word)
	if kind == token.PreprocOther {
		// #Вставка/#Удаление и прочее: пропускаем до конца строки
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		sp = lx.cursor.SpanFrom(start)
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.file.Text(sp)}
}
