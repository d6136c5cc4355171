package ast

import (
	"bslcheck/internal/source"
	"bslcheck/internal/token"
)

// Annotation is an '&Имя' line before a method or variable.
// Directive is DirectiveNone for non-compilation annotations (&Перед, &Вместо, ...).
type Annotation struct {
	Name      string
	Span      source.Span
	Directive token.Directive
	Args      TokenRange
}

type Param struct {
	Name       string
	Span       source.Span
	ByVal      bool
	HasDefault bool
	Default    TokenRange
}

type Method struct {
	Name     string
	NameSpan source.Span
	// Span covers the whole declaration including the closing keyword.
	Span source.Span
	// Header covers 'Процедура Имя(...) Экспорт'.
	Header      source.Span
	IsFunction  bool
	Export      bool
	Async       bool
	Annotations []Annotation
	Params      []Param
	Body        Block
	// End is the КонецПроцедуры/КонецФункции keyword; empty when missing.
	End       source.Span
	Malformed bool
}

// Directives returns the compilation directives declared on the method.
func (m *Method) Directives() []token.Directive {
	var out []token.Directive
	for _, a := range m.Annotations {
		if a.Directive != token.DirectiveNone {
			out = append(out, a.Directive)
		}
	}
	return out
}

// VarDecl is one name of a 'Перем' statement.
type VarDecl struct {
	Name        string
	Span        source.Span
	Export      bool
	Annotations []Annotation
}
