package diag

import (
	"testing"

	"bslcheck/internal/source"
)

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(3)
	sp := func(start uint32) source.Span { return source.Span{File: 0, Start: start, End: start + 1} }

	bag.Add(New(SevInfo, "LineLength", sp(10), "b"))
	bag.Add(New(SevError, SynUnexpectedToken, sp(2), "a"))
	bag.Add(New(SevWarning, "EmptyRegion", sp(10), "c"))
	if bag.Add(New(SevHint, "Extra", sp(0), "d")) {
		t.Fatalf("bag must refuse items past the limit")
	}

	bag.Sort()
	items := bag.Items()
	if items[0].Code != SynUnexpectedToken {
		t.Fatalf("expected syntax error first, got %s", items[0].Code)
	}
	// на одной позиции более важная диагностика идёт первой
	if items[1].Severity != SevWarning || items[2].Severity != SevInfo {
		t.Fatalf("unexpected order: %v", items)
	}
	if !bag.HasErrors() || bag.Dropped() != 1 {
		t.Fatalf("HasErrors=%v Dropped=%d", bag.HasErrors(), bag.Dropped())
	}
}

func TestBagUnlimited(t *testing.T) {
	bag := NewBag(0)
	ds := make([]Diagnostic, 100)
	for i := range ds {
		ds[i] = New(SevHint, "LineLength", source.Span{Start: uint32(i)}, "long")
	}
	if kept := bag.AddAll(ds); kept != 100 || bag.Dropped() != 0 {
		t.Fatalf("kept=%d dropped=%d", kept, bag.Dropped())
	}
	if bag.HasErrors() {
		t.Fatalf("hints are not errors")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 3, End: 4}
	msg := "ожидалась ';'"
	Emit(r, Diagnostic{Severity: SevError, Code: SynExpectSemicolon, Primary: sp, Message: msg})
	Emit(r, Diagnostic{Severity: SevError, Code: SynExpectSemicolon, Primary: sp, Message: msg})
	Emit(r, Diagnostic{Severity: SevWarning, Code: SynExpectSemicolon, Primary: sp, Message: msg, Notes: []Note{{Span: sp, Msg: "здесь"}}})
	var got []Code
	ReporterFunc(func(d Diagnostic) { got = append(got, d.Code) }).Report("X", SevHint, sp, "", nil, nil)
	if len(got) != 1 || got[0] != "X" {
		t.Fatalf("ReporterFunc: got %v", got)
	}
	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", bag.Len())
	}
	if len(bag.Items()[1].Notes) != 1 {
		t.Fatalf("note lost")
	}
}

func TestParseSeverity(t *testing.T) {
	cases := map[string]Severity{
		"hint": SevHint, "Information": SevInfo, "info": SevInfo, "WARNING": SevWarning, "error": SevError,
	}
	for in, want := range cases {
		got, err := ParseSeverity(in)
		if err != nil || got != want {
			t.Fatalf("ParseSeverity(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
