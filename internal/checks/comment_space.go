package checks

import (
	"regexp"
	"strings"

	"bslcheck/internal/diag"
	"bslcheck/internal/fix"
	"bslcheck/internal/rules"
	"bslcheck/internal/source"
)

func spaceAtStartComment() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "SpaceAtStartComment",
		Name:               "Пробел в начале комментария",
		Message:            "Добавьте пробел после //",
		Type:               rules.TypeCodeSmell,
		Severity:           rules.SeverityInfo,
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagStandard},
		MinutesToFix:       1,
		Params: []rules.Param{
			{Name: "commentsAnnotation", Type: rules.ParamString, Default: "//@,//(c),//(с)", Description: "Префиксы служебных комментариев через запятую"},
		},
		New: func() rules.Rule { return &commentSpace{} },
	}
}

// комментарий из одних слешей тоже допустим
var goodComment = regexp.MustCompile(`^(?://\s.*|//+)$`)

type commentSpace struct{}

func (r *commentSpace) Run(p *rules.Pass) error {
	tree := p.AST()
	if tree == nil {
		return nil
	}
	prefixes := annotationPrefixes(p.Config.String("commentsAnnotation"))
	for _, c := range tree.File.Comments {
		if goodComment.MatchString(c.Text) || hasPrefixFold(c.Text, prefixes) {
			continue
		}
		p.Reportf(c.Span)
	}
	return nil
}

func annotationPrefixes(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}

func hasPrefixFold(text string, prefixes []string) bool {
	lower := strings.ToLower(text)
	for _, pfx := range prefixes {
		if strings.HasPrefix(lower, pfx) {
			return true
		}
	}
	return false
}

func (r *commentSpace) QuickFixes(req *rules.FixRequest) []diag.Fix {
	var out []diag.Fix
	for _, d := range req.Diagnostics {
		if !strings.HasPrefix(req.Doc.Text(d.Primary), "//") {
			continue
		}
		at := source.Span{File: d.Primary.File, Start: d.Primary.Start + 2, End: d.Primary.Start + 2}
		out = append(out, fix.InsertText("Добавить пробел", at, " ", "",
			fix.Resolving(d), fix.WithID(fix.MakeFixID(d.Code, d.Primary))))
	}
	return out
}
