package checks

import (
	"strings"
	"unicode/utf8"

	"bslcheck/internal/rules"
	"bslcheck/internal/source"
	"bslcheck/internal/token"
)

func lineLength() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "LineLength",
		Name:               "Ограничение на длину строки",
		Message:            "Длина строки %d превышает допустимую %d",
		Type:               rules.TypeCodeSmell,
		Severity:           rules.SeverityMinor,
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagStandard, rules.TagBadPractice},
		MinutesToFix:       1,
		Params: []rules.Param{
			{Name: "maxLineLength", Type: rules.ParamInt, Default: 120, Description: "Максимальная длина строки в символах"},
			{Name: "checkMethodDescription", Type: rules.ParamBool, Default: true, Description: "Проверять длину строк в описаниях методов"},
		},
		New: func() rules.Rule { return &lineLen{} },
	}
}

type lineLen struct {
	file  *source.File
	width map[uint32]uint32 // line -> end offset of the furthest counted token
}

func (r *lineLen) Run(p *rules.Pass) error {
	tree := p.AST()
	if tree == nil || p.Doc.File == nil {
		return nil
	}
	r.file = p.Doc.File
	r.width = map[uint32]uint32{}
	limit := p.Config.Int("maxLineLength")

	for _, t := range tree.File.Tokens {
		// части многострочной строки не проверяются
		if t.Kind == token.EOF || (t.Kind == token.StringLit && strings.Contains(t.Text, "\n")) {
			continue
		}
		r.note(t.Span)
	}
	var skip map[uint32]bool
	if !p.Config.Bool("checkMethodDescription") {
		skip = r.descriptionLines(tree.File.Comments, methodLines(p))
	}
	for _, c := range tree.File.Comments {
		if !skip[r.file.LineCol(c.Span.Start).Line] {
			r.note(c.Span)
		}
	}

	for line := uint32(1); line <= r.file.LineCount(); line++ {
		end, ok := r.width[line]
		if !ok {
			continue
		}
		start := lineStart(r.file, line)
		cols := utf8.RuneCount(r.file.Content[start:end])
		if cols <= limit {
			continue
		}
		p.Reportf(source.Span{File: r.file.ID, Start: start, End: end}, cols, limit)
	}
	return nil
}

func (r *lineLen) note(sp source.Span) {
	line := r.file.LineCol(sp.End).Line
	if sp.End > r.width[line] {
		r.width[line] = sp.End
	}
}

func methodLines(p *rules.Pass) []uint32 {
	var out []uint32
	for _, m := range p.AST().Methods() {
		start := m.Header.Start
		if len(m.Annotations) > 0 {
			start = m.Annotations[0].Span.Start
		}
		out = append(out, p.Doc.File.LineCol(start).Line)
	}
	return out
}

// descriptionLines collects comment lines directly above method headers.
func (r *lineLen) descriptionLines(comments []token.Comment, methods []uint32) map[uint32]bool {
	own := map[uint32]bool{}
	for _, c := range comments {
		if !c.Trailing {
			own[r.file.LineCol(c.Span.Start).Line] = true
		}
	}
	out := map[uint32]bool{}
	for _, first := range methods {
		for line := first - 1; line > 0 && own[line]; line-- {
			out[line] = true
		}
	}
	return out
}
