package token

// Directive is a compilation directive attached to a method or a module variable.
type Directive uint8

const (
	// DirectiveNone marks annotations that are not compilation directives
	// (&Перед, &После, &Вместо, ...).
	DirectiveNone Directive = iota
	DirAtClient
	DirAtServer
	DirAtServerNoContext
	DirAtClientAtServerNoContext
	DirAtClientAtServer
)

var directiveForms = map[Directive][]string{
	DirAtClient:                  {"НаКлиенте", "AtClient"},
	DirAtServer:                  {"НаСервере", "AtServer"},
	DirAtServerNoContext:         {"НаСервереБезКонтекста", "AtServerNoContext"},
	DirAtClientAtServerNoContext: {"НаКлиентеНаСервереБезКонтекста", "AtClientAtServerNoContext"},
	DirAtClientAtServer:          {"НаКлиентеНаСервере", "AtClientAtServer"},
}

var directives = func() map[string]Directive {
	out := make(map[string]Directive)
	for d, forms := range directiveForms {
		for _, f := range forms {
			out[Fold(f)] = d
		}
	}
	return out
}()

// LookupDirective maps an annotation name (without '&') to a directive.
func LookupDirective(name string) Directive {
	return directives[Fold(name)]
}

// DirectiveForms returns the accepted spellings of d.
func DirectiveForms(d Directive) []string {
	return directiveForms[d]
}

func (d Directive) String() string {
	if forms := directiveForms[d]; len(forms) > 0 {
		return forms[0]
	}
	return ""
}

// IsServer reports whether the directive compiles the method on the server
// without client context.
func (d Directive) IsServer() bool {
	return d == DirAtServer || d == DirAtServerNoContext
}
