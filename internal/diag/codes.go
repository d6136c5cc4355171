package diag

import "strings"

// Code identifies a diagnostic. Rule diagnostics use the rule code
// ("UnreachableCode"), lexer and parser problems use LEXnnnn/SYNnnnn.
type Code string

const (
	// Неизвестная ошибка
	UnknownCode Code = "UNK0000"

	// Лексические
	LexUnknownChar        Code = "LEX1001"
	LexUnterminatedString Code = "LEX1002"
	LexBadDate            Code = "LEX1003"
	LexBadNumber          Code = "LEX1004"
	LexTokenTooLong       Code = "LEX1005"

	// Парсерные
	SynUnexpectedToken      Code = "SYN2001"
	SynUnclosedParen        Code = "SYN2002"
	SynExpectSemicolon      Code = "SYN2003"
	SynExpectIdentifier     Code = "SYN2004"
	SynExpectExpression     Code = "SYN2005"
	SynMissingThen          Code = "SYN2006"
	SynMissingDo            Code = "SYN2007"
	SynUnterminatedBlock    Code = "SYN2008"
	SynUnterminatedMethod   Code = "SYN2009"
	SynUnterminatedRegion   Code = "SYN2010"
	SynUnexpectedEndRegion  Code = "SYN2011"
	SynUnterminatedPreproc  Code = "SYN2012"
	SynUnexpectedPreproc    Code = "SYN2013"
	SynForBadHeader         Code = "SYN2014"
	SynDirectiveNotAllowed  Code = "SYN2015"
	SynStatementOutOfMethod Code = "SYN2016"
	// SynInternal: разбор прерван внутренней ошибкой парсера.
	SynInternal             Code = "SYN2099"

	// Ошибки I/O
	IOLoadFileError Code = "IO4001"
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	LexUnknownChar:          "Unknown character",
	LexUnterminatedString:   "Unterminated string",
	LexBadDate:              "Malformed date literal",
	LexBadNumber:            "Bad number",
	LexTokenTooLong:         "Token too long",
	SynUnexpectedToken:      "Unexpected token",
	SynUnclosedParen:        "Unclosed parenthesis",
	SynExpectSemicolon:      "Expect semicolon",
	SynExpectIdentifier:     "Expect identifier",
	SynExpectExpression:     "Expect expression",
	SynMissingThen:          "Missing 'Тогда'",
	SynMissingDo:            "Missing 'Цикл'",
	SynUnterminatedBlock:    "Unterminated block",
	SynUnterminatedMethod:   "Unterminated procedure or function",
	SynUnterminatedRegion:   "Unterminated region",
	SynUnexpectedEndRegion:  "Unexpected end of region",
	SynUnterminatedPreproc:  "Unterminated preprocessor condition",
	SynUnexpectedPreproc:    "Unexpected preprocessor instruction",
	SynForBadHeader:         "Malformed for-loop header",
	SynDirectiveNotAllowed:  "Compilation directive is not allowed here",
	SynStatementOutOfMethod: "Statement outside of a method",
	SynInternal:             "Internal parser error",
	IOLoadFileError:         "I/O load file error",
}

// ID returns the stable textual form of the code.
func (c Code) ID() string {
	if c == "" {
		return string(UnknownCode)
	}
	return string(c)
}

// Title returns the human readable description for syntax codes; rule codes
// return themselves (their titles live in the rule catalog).
func (c Code) Title() string {
	if d, ok := codeDescription[c]; ok {
		return d
	}
	return string(c)
}

func (c Code) String() string {
	return c.ID()
}

// IsSyntax reports whether the code belongs to the lexer or parser.
func (c Code) IsSyntax() bool {
	s := string(c)
	return strings.HasPrefix(s, "LEX") || strings.HasPrefix(s, "SYN")
}
