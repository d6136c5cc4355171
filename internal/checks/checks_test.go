package checks

import (
	"strings"
	"testing"

	"bslcheck/internal/config"
	"bslcheck/internal/metadata"
	"bslcheck/internal/rules"
	"bslcheck/internal/selector"
)

func TestCatalogIsValid(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Validate(); err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if reg.Len() != len(All()) {
		t.Fatalf("registry holds %d rules, catalog %d", reg.Len(), len(All()))
	}
	if err := Register(reg); err == nil {
		t.Fatalf("registering twice must fail")
	}
	withFixes := map[string]bool{
		"EmptyRegion":               true,
		"ConsecutiveEmptyLines":     true,
		"SpaceAtStartComment":       true,
		"CanonicalSpellingKeywords": true,
		"DeprecatedTypeManagedForm": true,
	}
	for _, d := range reg.All() {
		if d.HasFixes() != withFixes[d.Code] {
			t.Fatalf("%s: HasFixes=%v", d.Code, d.HasFixes())
		}
	}
}

func TestDefaultActivation(t *testing.T) {
	reg := NewRegistry()
	for _, code := range []string{"TooManyReturns", "TernaryOperatorUsage"} {
		d, ok := reg.Lookup(code)
		if !ok || d.ActivatedByDefault {
			t.Fatalf("%s must be off by default", code)
		}
	}
	d, _ := reg.Lookup("UsingModalWindows")
	if d.MinCompat != metadata.MustVersion("8.3.3") {
		t.Fatalf("UsingModalWindows min compat %s", d.MinCompat)
	}
}

func TestOnlyExceptOnCatalog(t *testing.T) {
	sel := selector.New(NewRegistry(), nil)
	ctx := metadata.Context{Kind: metadata.KindCommonModule, File: metadata.FileBSL, Compatibility: metadata.MustVersion("8.3.10")}
	params := map[string]config.Override{
		"Typo":           {Enabled: false},
		"TooManyReturns": {Enabled: true},
	}
	settings := func(mode config.Mode) *config.Settings {
		s := config.Default()
		s.Mode = mode
		for k, v := range params {
			s.Parameters[k] = v
		}
		return &s
	}

	only := sel.Select(ctx, settings(config.ModeOnly))
	if len(only) != 1 || only[0].Descriptor.Code != "TooManyReturns" {
		t.Fatalf("ONLY selected %d rules", len(only))
	}
	except := sel.Select(ctx, settings(config.ModeExcept))
	if len(except) <= 10 {
		t.Fatalf("EXCEPT selected only %d rules", len(except))
	}
	kept := map[string]bool{}
	for _, a := range except {
		kept[a.Descriptor.Code] = true
	}
	if kept["TooManyReturns"] || !kept["TernaryOperatorUsage"] || !kept["EmptyRegion"] {
		t.Fatalf("EXCEPT kept %v", kept)
	}
}

func TestAllFunctionPathMustHaveReturn(t *testing.T) {
	src := "Функция Ф(А)\n\tЕсли А Тогда\n\t\tВозврат 1;\n\tКонецЕсли;\nКонецФункции\n"
	f, ds := runRule(t, "AllFunctionPathMustHaveReturn", src, nil)
	if len(ds) != 1 || f.text(ds[0]) != "Ф" || len(ds[0].Notes) == 0 {
		t.Fatalf("unexpected %+v", ds)
	}

	src = "Функция Ф(А)\n\tЕсли А Тогда\n\t\tВозврат 1;\n\tИначе\n\t\tВозврат 2;\n\tКонецЕсли;\nКонецФункции\n"
	if _, ds = runRule(t, "AllFunctionPathMustHaveReturn", src, nil); len(ds) != 0 {
		t.Fatalf("all paths return: %s", messages(ds))
	}
	// без единого Возврат функция не проверяется
	src = "Функция Ф(А)\n\tА = 1;\nКонецФункции\n"
	if _, ds = runRule(t, "AllFunctionPathMustHaveReturn", src, nil); len(ds) != 0 {
		t.Fatalf("function without returns: %s", messages(ds))
	}
}

func TestAllFunctionPathMustHaveReturnPreprocessor(t *testing.T) {
	src := "Функция Тест()\n#Если Сервер Тогда\nЕсли У Тогда Возврат 1 КонецЕсли\n#Иначе\nВозврат 4\n#КонецЕсли\nКонецФункции"
	if _, ds := runRule(t, "AllFunctionPathMustHaveReturn", src, nil); len(ds) != 0 {
		t.Fatalf("#Иначе returns after the branch: %s", messages(ds))
	}
	src = "Функция Тест()\n#Если Сервер Тогда\nЕсли У Тогда Возврат 1 КонецЕсли\n#КонецЕсли\nКонецФункции"
	f, ds := runRule(t, "AllFunctionPathMustHaveReturn", src, nil)
	if len(ds) != 1 || f.text(ds[0]) != "Тест" {
		t.Fatalf("region without #Иначе: %+v", ds)
	}
}

func TestAllFunctionPathMustHaveReturnLoopParam(t *testing.T) {
	src := "Функция Ф(А)\n\tДля Инд = 1 По А Цикл\n\t\tВозврат Инд;\n\tКонецЦикла;\nКонецФункции\n"
	if _, ds := runRule(t, "AllFunctionPathMustHaveReturn", src, nil); len(ds) != 0 {
		t.Fatalf("loops run at least once by default: %s", messages(ds))
	}
	_, ds := runRule(t, "AllFunctionPathMustHaveReturn", src, map[string]any{"loopsExecutedAtLeastOnce": false})
	if len(ds) != 1 {
		t.Fatalf("loop may be skipped: %d diagnostics", len(ds))
	}
}

func TestUnreachableCode(t *testing.T) {
	f, ds := runRule(t, "UnreachableCode", proc("\tВозврат;\n\tА = 1;"), nil)
	if len(ds) != 1 || !strings.HasPrefix(f.text(ds[0]), "А = 1") {
		t.Fatalf("unexpected %+v", ds)
	}
}

func TestIfElseDuplicates(t *testing.T) {
	src := proc("\tЕсли А Тогда\n\t\tБ = 1;\n\tИначеЕсли В Тогда\n\t\tб = 1;\n\tИначе\n\t\tБ = 2;\n\tКонецЕсли;")
	f, ds := runRule(t, "IfElseDuplicatedCodeBlock", src, nil)
	if len(ds) != 1 || f.text(ds[0]) != "б = 1" || len(ds[0].Notes) != 1 {
		t.Fatalf("blocks: %+v", ds)
	}

	src = proc("\tЕсли А = 1 Тогда\n\t\tБ = 1;\n\tИначеЕсли а = 1 Тогда\n\t\tБ = 2;\n\tИначеЕсли А = 2 Тогда\n\t\tБ = 3;\n\tКонецЕсли;")
	f, ds = runRule(t, "IfElseDuplicatedCondition", src, nil)
	if len(ds) != 1 || f.text(ds[0]) != "а = 1" {
		t.Fatalf("conditions: %+v", ds)
	}
}

func TestEmptyCodeBlock(t *testing.T) {
	src := proc("\tЕсли А Тогда\n\tКонецЕсли;\n\tПока А Цикл\n\t\t// ждём\n\tКонецЦикла;\n\tПопытка\n\t\tА = 1;\n\tИсключение\n\tКонецПопытки;")
	_, ds := runRule(t, "EmptyCodeBlock", src, nil)
	if len(ds) != 2 {
		t.Fatalf("expected 2 empty blocks, got %s", messages(ds))
	}
	_, ds = runRule(t, "EmptyCodeBlock", src, map[string]any{"commentAsCode": true})
	if len(ds) != 1 {
		t.Fatalf("comment counts as code: got %d", len(ds))
	}
}

func TestEmptyRegionAndFix(t *testing.T) {
	src := "#Область Пустая\n#КонецОбласти\n\n#Область Код\nПроцедура П()\nКонецПроцедуры\n#КонецОбласти\n"
	f, ds := runRule(t, "EmptyRegion", src, nil)
	if len(ds) != 1 || ds[0].Message != `Область "Пустая" не содержит кода` {
		t.Fatalf("unexpected %s", messages(ds))
	}
	got := f.fixAll(t, ds)
	if strings.Contains(got, "Пустая") || !strings.Contains(got, "#Область Код") {
		t.Fatalf("fixed text %q", got)
	}
}

func TestCodeOutOfRegion(t *testing.T) {
	src := "#Область Публичный\nПроцедура А() Экспорт\nКонецПроцедуры\n#КонецОбласти\n\nПроцедура Б()\nКонецПроцедуры\n"
	f, ds := runRule(t, "CodeOutOfRegion", src, nil)
	if len(ds) != 1 || f.text(ds[0]) != "Б" {
		t.Fatalf("unexpected %+v", ds)
	}

	src = "Процедура А()\nКонецПроцедуры\n\nПроцедура Б()\nКонецПроцедуры\n"
	_, ds = runRule(t, "CodeOutOfRegion", src, nil)
	if len(ds) != 1 || len(ds[0].Notes) != 2 {
		t.Fatalf("module without regions: %+v", ds)
	}

	d, _ := NewRegistry().Lookup("CodeOutOfRegion")
	if d.Applicable(metadata.Context{Kind: metadata.KindUnknown}, nil) {
		t.Fatalf("unknown module kind must be skipped")
	}
}

func TestNestedStatements(t *testing.T) {
	src := proc("\tЕсли А Тогда\n\t\tПока Б Цикл\n\t\t\tЕсли В Тогда\n\t\t\t\tЕсли Г Тогда\n\t\t\t\tКонецЕсли;\n\t\t\tКонецЕсли;\n\t\tКонецЦикла;\n\tКонецЕсли;")
	f, ds := runRule(t, "NestedStatements", src, map[string]any{"maxAllowedLevel": 2})
	if len(ds) != 1 || f.text(ds[0]) != "Если" || len(ds[0].Notes) != 2 {
		t.Fatalf("unexpected %+v", ds)
	}
	if _, ds = runRule(t, "NestedStatements", src, nil); len(ds) != 0 {
		t.Fatalf("default level 4: %s", messages(ds))
	}
}

func TestTooManyReturns(t *testing.T) {
	src := "Функция Ф(А)\n\tЕсли А = 1 Тогда\n\t\tВозврат 1;\n\tИначеЕсли А = 2 Тогда\n\t\tВозврат 2;\n\tИначеЕсли А = 3 Тогда\n\t\tВозврат 3;\n\tКонецЕсли;\n\tВозврат 4;\nКонецФункции\n"
	_, ds := runRule(t, "TooManyReturns", src, nil)
	if len(ds) != 1 || len(ds[0].Notes) != 4 || ds[0].Message != "Метод содержит 4 операторов Возврат, допустимо 3" {
		t.Fatalf("unexpected %+v", ds)
	}
	if got := returnNote("Возврат   1"); got != "Возврат 1" {
		t.Fatalf("note %q", got)
	}
	if got := returnNote("Возврат ОченьДлинноеВыражение"); got != "Возврат ОченьДлинное..." {
		t.Fatalf("long note %q", got)
	}
	if got := returnNote(""); got != "+1" {
		t.Fatalf("empty note %q", got)
	}
}

func TestTernaryOperatorUsage(t *testing.T) {
	f, ds := runRule(t, "TernaryOperatorUsage", proc("\tА = ?(Б, 1, 2);"), nil)
	if len(ds) != 1 || f.text(ds[0]) != "?(Б, 1, 2)" {
		t.Fatalf("unexpected %+v", ds)
	}
}

func TestSimpleStatementRules(t *testing.T) {
	_, ds := runRule(t, "UsingGoto", proc("\tПерейти ~Метка;\n\t~Метка:\n\tА = 1;"), nil)
	if len(ds) != 1 {
		t.Fatalf("goto: %s", messages(ds))
	}

	src := proc("\tВозврат 1;") + "Функция Ф()\n\tВозврат 1;\nКонецФункции\n"
	_, ds = runRule(t, "ProcedureReturnsValue", src, nil)
	if len(ds) != 1 {
		t.Fatalf("procedure returns: %s", messages(ds))
	}

	f, ds := runRule(t, "ExportVariables", "Перем А Экспорт;\nПерем Б;\n", nil)
	if len(ds) != 1 || f.text(ds[0]) != "А" {
		t.Fatalf("export vars: %+v", ds)
	}
}

func TestUnusedLocalVariable(t *testing.T) {
	src := "Перем Модульная;\n\nПроцедура П(Парам)\n\tПерем Неисп;\n\tА = 1;\n\tБ = 2;\n\tСообщить(Б);\n\tПарам = 3;\n\tМодульная = 4;\nКонецПроцедуры\n"
	_, ds := runRule(t, "UnusedLocalVariable", src, nil)
	want := `Значение переменной "Неисп" не используется; Значение переменной "А" не используется`
	if got := messages(ds); got != want {
		t.Fatalf("got %s", got)
	}
}

func TestLineLength(t *testing.T) {
	_, ds := runRule(t, "LineLength", "А = \"очень длинная строка\";\nБ = 1;\n", map[string]any{"maxLineLength": 10})
	if len(ds) != 1 {
		t.Fatalf("expected 1, got %s", messages(ds))
	}

	src := "// Очень длинное описание метода\nПроцедура П()\nКонецПроцедуры\n"
	limit := map[string]any{"maxLineLength": 15}
	if _, ds = runRule(t, "LineLength", src, limit); len(ds) != 1 {
		t.Fatalf("description checked: %s", messages(ds))
	}
	limit["checkMethodDescription"] = false
	if _, ds = runRule(t, "LineLength", src, limit); len(ds) != 0 {
		t.Fatalf("description skipped: %s", messages(ds))
	}
}

func TestConsecutiveEmptyLines(t *testing.T) {
	f, ds := runRule(t, "ConsecutiveEmptyLines", "А = 1;\n\n\n\nБ = 2;\n", nil)
	if len(ds) != 1 {
		t.Fatalf("inner gap: %s", messages(ds))
	}
	if got := f.fixAll(t, ds); got != "А = 1;\n\nБ = 2;\n" {
		t.Fatalf("fixed %q", got)
	}

	f, ds = runRule(t, "ConsecutiveEmptyLines", "А = 1;\n\n\n", nil)
	if len(ds) != 1 {
		t.Fatalf("trailing gap: %s", messages(ds))
	}
	if got := f.fixAll(t, ds); got != "А = 1;\n\n" {
		t.Fatalf("fixed trailing %q", got)
	}

	if _, ds = runRule(t, "ConsecutiveEmptyLines", "А = 1;\n\nБ = 2;\n", nil); len(ds) != 0 {
		t.Fatalf("one empty line is allowed")
	}
}

func TestSpaceAtStartComment(t *testing.T) {
	src := "//плохо\n// хорошо\n//@аннотация\n////\nА = 1; //тоже плохо\n"
	f, ds := runRule(t, "SpaceAtStartComment", src, nil)
	if len(ds) != 2 {
		t.Fatalf("unexpected %s", messages(ds))
	}
	want := "// плохо\n// хорошо\n//@аннотация\n////\nА = 1; // тоже плохо\n"
	if got := f.fixAll(t, ds); got != want {
		t.Fatalf("fixed %q", got)
	}
}

func TestCanonicalSpellingKeywords(t *testing.T) {
	f, ds := runRule(t, "CanonicalSpellingKeywords", "ЕСЛИ А Тогда\nКОНЕЦЕСЛИ;\n", nil)
	if len(ds) != 2 || ds[0].Message != `Неканоническое написание ключевого слова "ЕСЛИ"` {
		t.Fatalf("unexpected %s", messages(ds))
	}
	if got := f.fixAll(t, ds); got != "Если А Тогда\nКонецЕсли;\n" {
		t.Fatalf("fixed %q", got)
	}
}

func TestServerSideExportFormMethod(t *testing.T) {
	src := "&НаСервере\nПроцедура П() Экспорт\nКонецПроцедуры\n\n&НаКлиенте\nПроцедура К() Экспорт\nКонецПроцедуры\n"
	f, ds := runRule(t, "ServerSideExportFormMethod", src, nil)
	if len(ds) != 1 || f.text(ds[0]) != "П" {
		t.Fatalf("unexpected %+v", ds)
	}
	d, _ := NewRegistry().Lookup("ServerSideExportFormMethod")
	if len(d.ModuleKinds) != 1 || d.ModuleKinds[0] != metadata.KindFormModule {
		t.Fatalf("module kinds %v", d.ModuleKinds)
	}
}

func TestUsingModalWindows(t *testing.T) {
	src := proc("\tОтвет = Вопрос(\"Продолжить?\", РежимДиалогаВопрос.ДаНет);\n\tФорма.ОткрытьМодально();\n\tОбъект.Вопрос(1);")
	_, ds := runRule(t, "UsingModalWindows", src, nil)
	want := `Вместо модального метода "Вопрос" используйте "ПоказатьВопрос"; Вместо модального метода "ОткрытьМодально" используйте "Открыть"`
	if got := messages(ds); got != want {
		t.Fatalf("got %s", got)
	}
}

func TestDeprecatedTypeManagedForm(t *testing.T) {
	src := "Если ТипЗнч(Ф) = Тип(\"УправляемаяФорма\") Тогда\nКонецЕсли;\n"
	f, ds := runRule(t, "DeprecatedTypeManagedForm", src, nil)
	if len(ds) != 1 || f.text(ds[0]) != `"УправляемаяФорма"` {
		t.Fatalf("unexpected %+v", ds)
	}
	want := "Если ТипЗнч(Ф) = Тип(\"ФормаКлиентскогоПриложения\") Тогда\nКонецЕсли;\n"
	if got := f.fixAll(t, ds); got != want {
		t.Fatalf("fixed %q", got)
	}

	d, _ := NewRegistry().Lookup("DeprecatedTypeManagedForm")
	if d.Applicable(metadata.Context{}, &config.Settings{OrdinaryAppSupport: true}) {
		t.Fatalf("ordinary application support disables the rule")
	}
	if !d.Applicable(metadata.Context{}, &config.Settings{}) {
		t.Fatalf("managed-only configuration enables the rule")
	}
}

var _ rules.QuickFixer = (*managedForm)(nil)
