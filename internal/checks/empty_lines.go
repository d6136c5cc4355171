package checks

import (
	"strings"

	"bslcheck/internal/diag"
	"bslcheck/internal/fix"
	"bslcheck/internal/rules"
	"bslcheck/internal/source"
)

func consecutiveEmptyLines() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "ConsecutiveEmptyLines",
		Name:               "Подряд идущие пустые строки",
		Message:            "Лишние пустые строки",
		Type:               rules.TypeCodeSmell,
		Severity:           rules.SeverityInfo,
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagBadPractice},
		MinutesToFix:       1,
		Params: []rules.Param{
			{Name: "allowedEmptyLinesCount", Type: rules.ParamInt, Default: 1, Description: "Допустимое количество пустых строк подряд"},
		},
		New: func() rules.Rule { return &emptyLines{} },
	}
}

type emptyLines struct{}

func (r *emptyLines) Run(p *rules.Pass) error {
	tree := p.AST()
	f := p.Doc.File
	if tree == nil || f == nil {
		return nil
	}
	allowed := max(p.Config.Int("allowedEmptyLinesCount"), 0)
	used := map[uint32]bool{}
	mark := func(sp source.Span) {
		from, to := f.LineCol(sp.Start).Line, f.LineCol(sp.End).Line
		for l := from; l <= to; l++ {
			used[l] = true
		}
	}
	// EOF тоже занимает строку: хвостовые пустые строки проверяются так же
	for _, t := range tree.File.Tokens {
		mark(t.Span)
	}
	for _, c := range tree.File.Comments {
		mark(c.Span)
	}
	prev := uint32(0)
	for line := uint32(1); line <= f.LineCount(); line++ {
		if !used[line] {
			continue
		}
		if gap := int(line - prev - 1); gap > allowed {
			from := lineStart(f, prev+uint32(allowed)+1)
			p.Reportf(source.Span{File: f.ID, Start: from, End: lineStart(f, line)})
		}
		prev = line
	}
	return nil
}

func (r *emptyLines) QuickFixes(req *rules.FixRequest) []diag.Fix {
	var out []diag.Fix
	for _, d := range req.Diagnostics {
		text := req.Doc.Text(d.Primary)
		if strings.TrimSpace(text) != "" {
			continue
		}
		out = append(out, fix.DeleteSpan("Удалить лишние пустые строки", d.Primary, text,
			fix.Resolving(d), fix.WithID(fix.MakeFixID(d.Code, d.Primary))))
	}
	return out
}
