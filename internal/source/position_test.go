package source

import "testing"

func TestPositionRoundTripUTF16(t *testing.T) {
	fs := NewFileSet()
	// кириллица занимает 2 байта, но 1 UTF-16 единицу; эмодзи 4 байта и 2 единицы
	id := fs.AddVirtual("a.bsl", []byte("А = 1;\n// 😀 Б\n"))
	f := fs.Get(id)

	off := uint32(len("А = 1;\n// 😀 "))
	pos := f.PositionOf(off)
	if pos != (Position{Line: 1, Character: 6}) {
		t.Fatalf("PositionOf = %+v, want {1 6}", pos)
	}
	if back := f.OffsetOf(pos); back != off {
		t.Fatalf("OffsetOf = %d, want %d", back, off)
	}
}

func TestOffsetOfClamps(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.bsl", []byte("ab\ncd"))
	f := fs.Get(id)

	if got := f.OffsetOf(Position{Line: 0, Character: 99}); got != 2 {
		t.Fatalf("past line end = %d, want 2", got)
	}
	if got := f.OffsetOf(Position{Line: 10}); got != 5 {
		t.Fatalf("past file end = %d, want 5", got)
	}
	sp := f.SpanOf(Position{Line: 1, Character: 2}, Position{Line: 0, Character: 1})
	if sp.Start != 1 || sp.End != 5 {
		t.Fatalf("SpanOf must order bounds, got %v", sp)
	}
}
