package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"bslcheck/internal/diag"
	"bslcheck/internal/lexer"
	"bslcheck/internal/source"
	"bslcheck/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.bsl", []byte(input))
	bag := diag.NewBag(0)
	return lexer.New(fs.Get(fileID), lexer.Options{Reporter: diag.BagReporter{Bag: bag}}), bag
}

// expectTokens проверяет последовательность токенов (без EOF)
func expectTokens(t *testing.T, input string, expected ...token.Kind) []token.Token {
	t.Helper()
	lx, bag := makeTestLexer(input)
	tokens := lx.All()
	tokens = tokens[:len(tokens)-1]

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d\ninput: %q\ntokens: %s\nerrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), bag.Items())
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Fatalf("token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
	return tokens
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func TestMethodHeader(t *testing.T) {
	toks := expectTokens(t, "&НаСервере\nФункция Сумма(Знач А, Б = 1) Экспорт",
		token.Annotation, token.KwFunction, token.Ident, token.LParen, token.KwVal, token.Ident,
		token.Comma, token.Ident, token.Assign, token.NumberLit, token.RParen, token.KwExport)
	if toks[0].Text != "&НаСервере" || toks[2].Text != "Сумма" {
		t.Fatalf("unexpected texts: %s", tokensToString(toks))
	}
}

func TestKeywordsKeepOriginalSpelling(t *testing.T) {
	toks := expectTokens(t, "ЕСЛИ а ТОГДА иначе EndIf", token.KwIf, token.Ident, token.KwThen, token.KwElse, token.KwEndIf)
	if toks[0].Text != "ЕСЛИ" || toks[3].Text != "иначе" {
		t.Fatalf("keyword text must not be normalized: %s", tokensToString(toks))
	}
}

func TestOperators(t *testing.T) {
	expectTokens(t, "а <> б <= в >= г < д > е = ж + - * / % ? [ ] . : ;",
		token.Ident, token.NotEq, token.Ident, token.LtEq, token.Ident, token.GtEq, token.Ident,
		token.Lt, token.Ident, token.Gt, token.Ident, token.Assign, token.Ident,
		token.Plus, token.Minus, token.Star, token.Slash, token.Percent, token.Question,
		token.LBracket, token.RBracket, token.Dot, token.Colon, token.Semicolon)
}

func TestStrings(t *testing.T) {
	toks := expectTokens(t, `С = "он сказал ""да""";`, token.Ident, token.Assign, token.StringLit, token.Semicolon)
	if toks[2].Text != `"он сказал ""да"""` {
		t.Fatalf("escaped quotes lost: %q", toks[2].Text)
	}

	multi := "Т = \"ВЫБРАТЬ\n\t|  Поле\n\t// комментарий\n\t|ИЗ Таблица\";"
	toks = expectTokens(t, multi, token.Ident, token.Assign, token.StringLit, token.Semicolon)
	if !strings.HasSuffix(toks[2].Text, `|ИЗ Таблица"`) {
		t.Fatalf("continuation lines lost: %q", toks[2].Text)
	}
}

func TestUnterminatedStringReported(t *testing.T) {
	lx, bag := makeTestLexer("А = \"abc\nБ = 1;")
	toks := lx.All()
	if toks[2].Kind != token.Invalid {
		t.Fatalf("expected invalid token, got %v", toks[2].Kind)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("expected unterminated string diagnostic, got %v", bag.Items())
	}
	// лексер продолжает со следующей строки
	if toks[3].Kind != token.Ident || toks[3].Text != "Б" {
		t.Fatalf("lexer did not resume: %s", tokensToString(toks))
	}
}

func TestDates(t *testing.T) {
	expectTokens(t, "Д = '20240131';", token.Ident, token.Assign, token.DateLit, token.Semicolon)
	lx, bag := makeTestLexer("'2024'")
	lx.All()
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexBadDate {
		t.Fatalf("expected bad date diagnostic, got %v", bag.Items())
	}
}

func TestPreprocessorAndLabels(t *testing.T) {
	toks := expectTokens(t, "#Область Основная\n#Если Сервер Тогда\n~Метка:\nПерейти ~Метка;\n#КонецЕсли\n#КонецОбласти",
		token.PreprocRegion, token.Ident, token.PreprocIf, token.Ident, token.KwThen,
		token.Label, token.Colon, token.KwGoto, token.Label, token.Semicolon,
		token.PreprocEndIf, token.PreprocEndRegion)
	if toks[0].Text != "#Область" || toks[5].Text != "~Метка" {
		t.Fatalf("unexpected texts: %s", tokensToString(toks))
	}
	// неизвестная инструкция съедает строку целиком
	expectTokens(t, "#Вставка что угодно\nА", token.PreprocOther, token.Ident)
}

func TestCommentsAreTrivia(t *testing.T) {
	lx, _ := makeTestLexer("// заголовок\nА = 1; // хвост\n//конец")
	toks := lx.All()
	if len(toks) != 5 {
		t.Fatalf("expected 4 tokens + EOF, got %s", tokensToString(toks))
	}
	comments := lx.Comments()
	if len(comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(comments))
	}
	if comments[0].Trailing || !comments[1].Trailing || comments[2].Trailing {
		t.Fatalf("trailing flags wrong: %+v", comments)
	}
	if comments[1].Text != "// хвост" {
		t.Fatalf("comment text = %q", comments[1].Text)
	}
	// комментарий в конце файла прикреплён к EOF
	if eof := toks[len(toks)-1]; len(eof.Leading) == 0 {
		t.Fatalf("EOF lost leading trivia")
	}
}

func TestShebangSkipped(t *testing.T) {
	expectTokens(t, "#!/usr/bin/env oscript\nСообщить(1);",
		token.Ident, token.LParen, token.NumberLit, token.RParen, token.Semicolon)
}

func TestUnknownCharacter(t *testing.T) {
	lx, bag := makeTestLexer("А = 1 $ 2;")
	lx.All()
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("expected unknown char diagnostic, got %v", bag.Items())
	}
}
