package checks

import (
	"bslcheck/internal/metadata"
	"bslcheck/internal/rules"
	"bslcheck/internal/token"
)

func usingModalWindows() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "UsingModalWindows",
		Name:               "Использование модальных окон",
		Message:            "Вместо модального метода \"%s\" используйте \"%s\"",
		Type:               rules.TypeCodeSmell,
		Severity:           rules.SeverityMajor,
		Scope:              rules.ScopeBSL,
		MinCompat:          metadata.MustVersion("8.3.3"),
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagStandard},
		MinutesToFix:       15,
		New:                func() rules.Rule { return &modal{} },
	}
}

// modalGlobal maps folded global modal methods to their asynchronous replacements.
var modalGlobal = foldKeys(map[string]string{
	"Вопрос":                             "ПоказатьВопрос",
	"DoQueryBox":                         "ShowQueryBox",
	"Предупреждение":                     "ПоказатьПредупреждение",
	"DoMessageBox":                       "ShowMessageBox",
	"ОткрытьФормуМодально":               "ОткрытьФорму",
	"OpenFormModal":                      "OpenForm",
	"ОткрытьЗначение":                    "ПоказатьЗначение",
	"OpenValue":                          "ShowValue",
	"ВвестиЗначение":                     "ПоказатьВводЗначения",
	"InputValue":                         "ShowInputValue",
	"ВвестиЧисло":                        "ПоказатьВводЧисла",
	"InputNumber":                        "ShowInputNumber",
	"ВвестиСтроку":                       "ПоказатьВводСтроки",
	"InputString":                        "ShowInputString",
	"ВвестиДату":                         "ПоказатьВводДаты",
	"InputDate":                          "ShowInputDate",
	"УстановитьВнешнююКомпоненту":        "НачатьУстановкуВнешнейКомпоненты",
	"InstallAddIn":                       "BeginInstallAddIn",
	"ПодключитьРасширениеРаботыСФайлами": "НачатьПодключениеРасширенияРаботыСФайлами",
	"AttachFileSystemExtension":          "BeginAttachingFileSystemExtension",
	"УстановитьРасширениеРаботыСФайлами": "НачатьУстановкуРасширенияРаботыСФайлами",
	"InstallFileSystemExtension":         "BeginInstallFileSystemExtension",
	"ПоместитьФайл":                      "НачатьПомещениеФайла",
	"PutFile":                            "BeginPutFile",
})

// modalMember are modal methods called on an object: Форма.ОткрытьМодально().
var modalMember = foldKeys(map[string]string{
	"ОткрытьМодально": "Открыть",
	"DoModal":         "Open",
})

func foldKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[token.Fold(k)] = v
	}
	return out
}

type modal struct{}

func (r *modal) Run(p *rules.Pass) error {
	tree := p.AST()
	if tree == nil {
		return nil
	}
	toks := tree.File.Tokens
	for i := 0; i+1 < len(toks); i++ {
		t := toks[i]
		if t.Kind != token.Ident || toks[i+1].Kind != token.LParen {
			continue
		}
		table := modalGlobal
		if i > 0 && toks[i-1].Kind == token.Dot {
			table = modalMember
		}
		if repl, ok := table[token.Fold(t.Text)]; ok {
			p.Reportf(t.Span, t.Text, repl)
		}
	}
	return nil
}
