package parser_test

import (
	"testing"

	"bslcheck/internal/ast"
	"bslcheck/internal/diag"
	"bslcheck/internal/token"
)

func TestMethodDeclaration(t *testing.T) {
	src := `&НаСервере
Функция Сумма(Знач А, Б = 1) Экспорт
	Возврат А + Б;
КонецФункции`
	tree := mustParse(t, src)
	m := onlyMethod(t, tree)
	if m.Name != "Сумма" || !m.IsFunction || !m.Export {
		t.Fatalf("unexpected method header: %+v", m)
	}
	if len(m.Params) != 2 || !m.Params[0].ByVal || m.Params[1].ByVal || !m.Params[1].HasDefault {
		t.Fatalf("unexpected params: %+v", m.Params)
	}
	if dirs := m.Directives(); len(dirs) != 1 || dirs[0] != token.DirAtServer {
		t.Fatalf("expected &НаСервере, got %v", dirs)
	}
	if len(m.Body.Stmts) != 1 || tree.Stmts.Get(m.Body.Stmts[0]).Kind != ast.StmtReturn {
		t.Fatalf("expected single return in body")
	}
	ret := tree.Stmts.Get(m.Body.Stmts[0])
	if ret.Expr.Len() != 3 {
		t.Fatalf("return value should span 3 tokens, got %d", ret.Expr.Len())
	}
}

func TestEnglishKeywordsAndAsync(t *testing.T) {
	src := `Async Procedure Run() Export
	Await DoIt();
EndProcedure`
	tree := mustParse(t, src)
	m := onlyMethod(t, tree)
	if !m.Async || m.IsFunction || !m.Export || m.Name != "Run" {
		t.Fatalf("unexpected method: %+v", m)
	}
}

func TestModuleVarsAndBody(t *testing.T) {
	src := `Перем А Экспорт, Б;

Процедура П()
КонецПроцедуры

А = 1;
П();`
	tree := mustParse(t, src)
	f := tree.File
	if len(f.Items) != 4 {
		t.Fatalf("expected 4 items (vars, method, 2 stmts), got %d", len(f.Items))
	}
	vars := tree.Items.Get(f.Items[0])
	if vars.Kind != ast.ItemVars || len(vars.Vars) != 2 {
		t.Fatalf("expected vars item with 2 names")
	}
	if !tree.Items.Var(vars.Vars[0]).Export || tree.Items.Var(vars.Vars[1]).Export {
		t.Fatalf("export flags wrong")
	}
	if len(f.Body.Stmts) != 2 {
		t.Fatalf("expected 2 body statements, got %d", len(f.Body.Stmts))
	}
}

func TestControlStatements(t *testing.T) {
	src := `Процедура П(Сп)
	Если А Тогда
		Б = 1;
	ИначеЕсли В Тогда
		Б = 2;
	Иначе
		Б = 3;
	КонецЕсли;
	Пока Истина Цикл
		Прервать;
	КонецЦикла;
	Для Инд = 1 По 10 Цикл
		Продолжить;
	КонецЦикла;
	Для Каждого Эл Из Сп Цикл
	КонецЦикла;
	Попытка
		ВызватьИсключение "ошибка";
	Исключение
		ВызватьИсключение;
	КонецПопытки;
	Перейти ~Конец;
	~Конец:
КонецПроцедуры`
	tree := mustParse(t, src)
	m := onlyMethod(t, tree)
	want := []ast.StmtKind{ast.StmtIf, ast.StmtWhile, ast.StmtFor, ast.StmtForEach, ast.StmtTry, ast.StmtGoto, ast.StmtLabel}
	if len(m.Body.Stmts) != len(want) {
		t.Fatalf("expected %d statements, got %d", len(want), len(m.Body.Stmts))
	}
	for i, id := range m.Body.Stmts {
		if got := tree.Stmts.Get(id).Kind; got != want[i] {
			t.Fatalf("stmt %d: expected %v, got %v", i, want[i], got)
		}
	}
	ifs, _ := tree.Stmts.If(m.Body.Stmts[0])
	if len(ifs.Branches) != 2 || !ifs.HasElse {
		t.Fatalf("if shape wrong: %+v", ifs)
	}
	forEach := tree.Stmts.Get(m.Body.Stmts[3])
	if forEach.Name != "Эл" {
		t.Fatalf("for-each variable = %q", forEach.Name)
	}
	goTo := tree.Stmts.Get(m.Body.Stmts[5])
	label := tree.Stmts.Get(m.Body.Stmts[6])
	if goTo.Name != label.Name || goTo.Name != "конец" {
		t.Fatalf("labels not normalized: %q vs %q", goTo.Name, label.Name)
	}
}

func TestRegionsNested(t *testing.T) {
	src := `#Область Внешняя
#Область Внутренняя
Процедура А()
КонецПроцедуры
#КонецОбласти
#КонецОбласти`
	tree := mustParse(t, src)
	regions := tree.File.Regions
	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}
	if regions[0].Name != "Внешняя" || regions[0].Parent != -1 || !regions[0].Closed {
		t.Fatalf("outer region wrong: %+v", regions[0])
	}
	if regions[1].Name != "Внутренняя" || regions[1].Parent != 0 {
		t.Fatalf("inner region wrong: %+v", regions[1])
	}
	if !regions[0].Span.ContainsSpan(regions[1].Span) {
		t.Fatalf("outer region must contain inner")
	}
}

func TestPreprocessorMarkersAreFlat(t *testing.T) {
	src := `Функция Ф()
	#Если Сервер Тогда
	Возврат 1;
	#Иначе
	Возврат 2;
	#КонецЕсли
КонецФункции`
	tree := mustParse(t, src)
	m := onlyMethod(t, tree)
	kinds := []token.Kind{token.PreprocIf, token.Invalid, token.PreprocElse, token.Invalid, token.PreprocEndIf}
	if len(m.Body.Stmts) != len(kinds) {
		t.Fatalf("expected %d flat statements, got %d", len(kinds), len(m.Body.Stmts))
	}
	for i, id := range m.Body.Stmts {
		st := tree.Stmts.Get(id)
		if kinds[i] == token.Invalid {
			if st.Kind != ast.StmtReturn {
				t.Fatalf("stmt %d: expected return, got %v", i, st.Kind)
			}
			continue
		}
		if st.Kind != ast.StmtPreproc || st.Preproc != kinds[i] {
			t.Fatalf("stmt %d: expected %v marker, got %v/%v", i, kinds[i], st.Kind, st.Preproc)
		}
	}
}

func TestQueryMethodAfterDotIsNotKeyword(t *testing.T) {
	src := `Процедура П()
	Результат = Запрос.Выполнить().Выгрузить();
КонецПроцедуры`
	tree := mustParse(t, src)
	m := onlyMethod(t, tree)
	if len(m.Body.Stmts) != 1 || tree.Stmts.Get(m.Body.Stmts[0]).Kind != ast.StmtPlain {
		t.Fatalf("expected a single plain statement")
	}
}

func TestCommentsCollected(t *testing.T) {
	tree := mustParse(t, "// шапка\nА = 1; // хвост\n")
	if len(tree.File.Comments) != 2 || !tree.File.Comments[1].Trailing {
		t.Fatalf("comments wrong: %+v", tree.File.Comments)
	}
}

func TestReturnOutsideMethod(t *testing.T) {
	_, bag := parseSource(t, "Возврат;")
	if !hasCode(bag, diag.SynStatementOutOfMethod) {
		t.Fatalf("expected SynStatementOutOfMethod, got %+v", bag.Items())
	}
}
