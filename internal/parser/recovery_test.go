package parser_test

import (
	"testing"

	"bslcheck/internal/ast"
	"bslcheck/internal/diag"
)

func TestUnterminatedIfInsideMethod(t *testing.T) {
	src := `Процедура П()
	Если А Тогда
		Б = 1;
КонецПроцедуры

Процедура Вторая()
КонецПроцедуры`
	tree, bag := parseSource(t, src)
	if !hasCode(bag, diag.SynUnterminatedBlock) {
		t.Fatalf("expected SynUnterminatedBlock, got %+v", bag.Items())
	}
	methods := tree.Methods()
	if len(methods) != 2 || methods[1].Name != "Вторая" {
		t.Fatalf("parser did not recover to the next method")
	}
	st := tree.Stmts.Get(methods[0].Body.Stmts[0])
	if !st.Malformed() {
		t.Fatalf("recovered if must be marked malformed")
	}
	if !tree.File.Malformed {
		t.Fatalf("file must be marked malformed")
	}
}

func TestMissingMethodEnd(t *testing.T) {
	src := `Функция Ф()
	Возврат 1;

Функция Г()
	Возврат 2;
КонецФункции`
	tree, bag := parseSource(t, src)
	if !hasCode(bag, diag.SynUnterminatedMethod) {
		t.Fatalf("expected SynUnterminatedMethod, got %+v", bag.Items())
	}
	methods := tree.Methods()
	if len(methods) != 2 || !methods[0].Malformed || methods[1].Malformed {
		t.Fatalf("unexpected methods after recovery")
	}
}

func TestForEachWithoutVariable(t *testing.T) {
	src := `Процедура П(Сп)
	Для Каждого Из Сп Цикл
	КонецЦикла;
КонецПроцедуры`
	tree, bag := parseSource(t, src)
	if !hasCode(bag, diag.SynExpectIdentifier) {
		t.Fatalf("expected SynExpectIdentifier, got %+v", bag.Items())
	}
	m := onlyMethod(t, tree)
	st := tree.Stmts.Get(m.Body.Stmts[0])
	if st.Kind != ast.StmtForEach || st.Name != "" || !st.Malformed() {
		t.Fatalf("unexpected for-each recovery: %+v", st)
	}
}

func TestStrayTerminatorsAndRegions(t *testing.T) {
	src := `КонецЕсли;
#КонецОбласти
#Область Открытая
Процедура П()
	КонецЦикла;
КонецПроцедуры`
	tree, bag := parseSource(t, src)
	for _, code := range []diag.Code{diag.SynUnexpectedToken, diag.SynUnexpectedEndRegion, diag.SynUnterminatedRegion} {
		if !hasCode(bag, code) {
			t.Fatalf("expected %s, got %+v", code, bag.Items())
		}
	}
	if len(tree.File.Regions) != 1 || tree.File.Regions[0].Closed {
		t.Fatalf("unclosed region must be kept")
	}
	if tree.File.Regions[0].Span.End != tree.File.Span.End {
		t.Fatalf("unclosed region must extend to the end of file")
	}
	onlyMethod(t, tree)
}

func TestUnbalancedPreprocessor(t *testing.T) {
	_, bag := parseSource(t, "#КонецЕсли\n#Если Сервер Тогда\nА = 1;")
	if !hasCode(bag, diag.SynUnexpectedPreproc) || !hasCode(bag, diag.SynUnterminatedPreproc) {
		t.Fatalf("expected preprocessor balance errors, got %+v", bag.Items())
	}
}

func TestMissingSemicolonBetweenStatements(t *testing.T) {
	src := `Процедура П()
	А = 1
	Возврат;
КонецПроцедуры`
	tree, bag := parseSource(t, src)
	if !hasCode(bag, diag.SynExpectSemicolon) {
		t.Fatalf("expected SynExpectSemicolon, got %+v", bag.Items())
	}
	m := onlyMethod(t, tree)
	if len(m.Body.Stmts) != 2 {
		t.Fatalf("expected both statements to survive, got %d", len(m.Body.Stmts))
	}
}

func TestGarbageNeverHangs(t *testing.T) {
	inputs := []string{
		"",
		")))",
		"Если",
		"Процедура",
		"Функция Ф(",
		"Для Каждого",
		"Попытка Исключение",
		"#Если",
		"#Область",
		"Экспорт Тогда Цикл",
		"&НаКлиенте",
		"~Метка",
	}
	for _, in := range inputs {
		tree, _ := parseSource(t, in)
		if tree == nil || tree.File == nil {
			t.Fatalf("nil tree for %q", in)
		}
	}
}
