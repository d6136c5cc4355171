package checks

import (
	"strings"

	"bslcheck/internal/config"
	"bslcheck/internal/diag"
	"bslcheck/internal/fix"
	"bslcheck/internal/metadata"
	"bslcheck/internal/rules"
	"bslcheck/internal/token"
)

func deprecatedTypeManagedForm() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "DeprecatedTypeManagedForm",
		Name:               "Устаревшее использование типа УправляемаяФорма",
		Message:            "Тип \"%s\" устарел, используйте \"%s\"",
		Type:               rules.TypeCodeSmell,
		Severity:           rules.SeverityInfo,
		Scope:              rules.ScopeBSL,
		MinCompat:          metadata.MustVersion("8.3.14"),
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagStandard, rules.TagDeprecated},
		MinutesToFix:       1,
		// в конфигурациях с обычным приложением старое имя ещё нужно
		Applicable: func(_ metadata.Context, s *config.Settings) bool {
			return s == nil || !s.OrdinaryAppSupport
		},
		New: func() rules.Rule { return &managedForm{} },
	}
}

var managedFormNames = foldKeys(map[string]string{
	"УправляемаяФорма": "ФормаКлиентскогоПриложения",
	"ManagedForm":      "ClientApplicationForm",
})

type managedForm struct{}

// typeArg matches Тип("УправляемаяФорма") and returns the string literal and
// its replacement name.
func typeArg(toks []token.Token, i int) (token.Token, string, bool) {
	if i+3 >= len(toks) {
		return token.Token{}, "", false
	}
	name := token.Fold(toks[i].Text)
	if toks[i].Kind != token.Ident || (name != token.Fold("Тип") && name != token.Fold("Type")) {
		return token.Token{}, "", false
	}
	if toks[i+1].Kind != token.LParen || toks[i+2].Kind != token.StringLit || toks[i+3].Kind != token.RParen {
		return token.Token{}, "", false
	}
	lit := toks[i+2]
	repl, ok := managedFormNames[token.Fold(strings.Trim(lit.Text, `"`))]
	return lit, repl, ok
}

func (r *managedForm) Run(p *rules.Pass) error {
	tree := p.AST()
	if tree == nil {
		return nil
	}
	toks := tree.File.Tokens
	for i := range toks {
		lit, repl, ok := typeArg(toks, i)
		if !ok {
			continue
		}
		p.Report(p.Diagnostic(lit.Span, strings.Trim(lit.Text, `"`), repl).WithTag(diag.TagDeprecated))
	}
	return nil
}

func (r *managedForm) QuickFixes(req *rules.FixRequest) []diag.Fix {
	tree := req.Doc.AST()
	if tree == nil {
		return nil
	}
	var out []diag.Fix
	toks := tree.File.Tokens
	for _, d := range req.Diagnostics {
		for i := range toks {
			lit, repl, ok := typeArg(toks, i)
			if !ok || lit.Span != d.Primary {
				continue
			}
			out = append(out, fix.ReplaceSpan("Заменить на "+repl, lit.Span, `"`+repl+`"`, lit.Text,
				fix.Resolving(d), fix.WithID(fix.MakeFixID(d.Code, d.Primary)), fix.Preferred()))
		}
	}
	return out
}
