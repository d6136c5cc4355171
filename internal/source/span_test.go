package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Fatalf("Cover = %v", got)
	}
	// разные файлы не склеиваются
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Fatalf("Cover across files = %v", got)
	}
}

func TestSpanOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"disjoint", Span{Start: 0, End: 5}, Span{Start: 5, End: 9}, false},
		{"nested", Span{Start: 0, End: 10}, Span{Start: 3, End: 4}, true},
		{"empty at edge", Span{Start: 5, End: 5}, Span{Start: 0, End: 5}, true},
		{"other file", Span{File: 1, Start: 0, End: 5}, Span{File: 2, Start: 0, End: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Fatalf("Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpanContains(t *testing.T) {
	s := Span{Start: 3, End: 6}
	if !s.Contains(3) || !s.Contains(5) || s.Contains(6) {
		t.Fatalf("Contains boundaries are wrong")
	}
	if !s.ContainsSpan(Span{Start: 4, End: 6}) || s.ContainsSpan(Span{Start: 2, End: 4}) {
		t.Fatalf("ContainsSpan is wrong")
	}
}
