package rules

import "bslcheck/internal/source"

func testSpan() source.Span { return source.Span{Start: 1, End: 4} }
