package symbols_test

import (
	"testing"

	"bslcheck/internal/diag"
	"bslcheck/internal/parser"
	"bslcheck/internal/source"
	"bslcheck/internal/symbols"
)

func buildTree(t *testing.T, src string) *symbols.Tree {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("Module.bsl", []byte(src))
	bag := diag.NewBag(0)
	res := parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	return symbols.Build("Module", res.Tree)
}

const sample = `Перем МодульнаяПеременная Экспорт;

#Область ПрограммныйИнтерфейс

Функция Сумма(А, Б) Экспорт
	Перем Результат;
	Результат = А + Б;
	Возврат Результат;
КонецФункции

#Область Вложенная
Процедура Служебная()
КонецПроцедуры
#КонецОбласти

#КонецОбласти

Процедура ВнеОбласти()
	#Область ВнутриМетода
	А = 1;
	#КонецОбласти
КонецПроцедуры
`

// countingVisitor считает посещения каждого символа
type countingVisitor struct {
	symbols.BaseVisitor
	seen map[*symbols.Symbol]int
}

func newCountingVisitor() *countingVisitor {
	v := &countingVisitor{seen: make(map[*symbols.Symbol]int)}
	v.Outer = v
	return v
}

func (v *countingVisitor) VisitModule(s *symbols.Symbol) {
	v.seen[s]++
	v.BaseVisitor.VisitModule(s)
}

func (v *countingVisitor) VisitRegion(s *symbols.Symbol) {
	v.seen[s]++
	v.BaseVisitor.VisitRegion(s)
}

func (v *countingVisitor) VisitMethod(s *symbols.Symbol) {
	v.seen[s]++
	v.BaseVisitor.VisitMethod(s)
}

func (v *countingVisitor) VisitVariable(s *symbols.Symbol) {
	v.seen[s]++
	v.BaseVisitor.VisitVariable(s)
}

func TestWalkVisitsEverySymbolOnce(t *testing.T) {
	tree := buildTree(t, sample)
	v := newCountingVisitor()
	symbols.Walk(v, tree.Module)

	all := append([]*symbols.Symbol{tree.Module}, tree.ChildrenFlat()...)
	if len(v.seen) != len(all) {
		t.Fatalf("visited %d distinct symbols, tree has %d", len(v.seen), len(all))
	}
	for _, s := range all {
		if v.seen[s] != 1 {
			t.Fatalf("%s %q visited %d times", s.Kind, s.Name, v.seen[s])
		}
	}
	if v.seen[tree.Module] != 1 {
		t.Fatalf("module must be visited")
	}
}

func TestTreeShape(t *testing.T) {
	tree := buildTree(t, sample)
	root := tree.Module
	// переменная, область, метод вне области
	if len(root.Children) != 3 {
		t.Fatalf("module children = %d, want 3", len(root.Children))
	}
	api := root.Children[1]
	if api.Kind != symbols.SymbolRegion || api.Name != "ПрограммныйИнтерфейс" {
		t.Fatalf("unexpected second child %s %q", api.Kind, api.Name)
	}
	if len(api.Children) != 2 || api.Children[0].Name != "Сумма" || api.Children[1].Name != "Вложенная" {
		t.Fatalf("region children wrong")
	}
	nested := api.Children[1]
	if len(nested.Children) != 1 || nested.Children[0].Name != "Служебная" {
		t.Fatalf("nested region must own Служебная")
	}
	if nested.Children[0].EnclosingRegion() != nested {
		t.Fatalf("EnclosingRegion wrong")
	}

	sum := api.Children[0]
	// параметры, затем локальная переменная
	if len(sum.Children) != 3 || sum.Children[2].Var.Kind != symbols.VarLocal {
		t.Fatalf("method children wrong: %d", len(sum.Children))
	}
	if !sum.Method.IsFunction || !sum.Method.Export {
		t.Fatalf("method attributes lost")
	}

	outside := root.Children[2]
	if len(outside.Children) != 1 || outside.Children[0].Kind != symbols.SymbolRegion {
		t.Fatalf("region inside a method must be owned by the method")
	}
}

func TestQueries(t *testing.T) {
	tree := buildTree(t, sample)
	if len(tree.Methods()) != 3 {
		t.Fatalf("Methods = %d", len(tree.Methods()))
	}
	if len(tree.RegionsFlat()) != 3 {
		t.Fatalf("RegionsFlat = %d", len(tree.RegionsFlat()))
	}
	m, ok := tree.MethodByName("сУММА")
	if !ok || m.Name != "Сумма" {
		t.Fatalf("MethodByName must ignore case")
	}
	if got := tree.VariablesByName("результат"); len(got) != 1 {
		t.Fatalf("VariablesByName = %d", len(got))
	}
	if at, ok := tree.MethodAt(m.NameSpan.Start); !ok || at != m {
		t.Fatalf("MethodAt failed")
	}
	if vars := tree.ModuleVariables(); len(vars) != 1 || !vars[0].Var.Export {
		t.Fatalf("ModuleVariables wrong")
	}
}

func TestTraversalIsStable(t *testing.T) {
	names := func() []string {
		var out []string
		for _, s := range buildTree(t, sample).ChildrenFlat() {
			out = append(out, s.Kind.String()+":"+s.Name)
		}
		return out
	}
	a, b := names(), names()
	if len(a) != len(b) {
		t.Fatalf("unstable length")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("order differs at %d: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestModuleOnlyTree(t *testing.T) {
	tree := symbols.ModuleOnly("Broken", source.Span{})
	v := newCountingVisitor()
	symbols.Walk(v, tree.Module)
	if len(v.seen) != 1 || len(tree.ChildrenFlat()) != 0 {
		t.Fatalf("module-only tree must contain just the root")
	}
	if symbols.Build("nil", nil).Module == nil {
		t.Fatalf("Build(nil) must still return a module")
	}
}

// partialVisitor не вызывает рекурсию в методах: переменные методов не посещаются
type partialVisitor struct {
	symbols.BaseVisitor
	vars int
}

func (v *partialVisitor) VisitMethod(*symbols.Symbol) {}

func (v *partialVisitor) VisitVariable(*symbols.Symbol) { v.vars++ }

func TestOverrideWithoutChainingStopsDescent(t *testing.T) {
	tree := buildTree(t, sample)
	v := &partialVisitor{}
	v.Outer = v
	symbols.Walk(v, tree.Module)
	if v.vars != 1 {
		t.Fatalf("expected only the module variable, got %d", v.vars)
	}
}
