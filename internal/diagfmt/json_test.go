package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"bslcheck/internal/diag"
	"bslcheck/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("А = 1;\nБ = \"строка\n")
	fileID := fs.AddVirtual("Module.bsl", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString, source.Span{File: fileID, Start: 13, End: 26}, "Незакрытая строка"))

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output JSONReport
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %+v", output)
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "LEX1002" || d.Message != "Незакрытая строка" {
		t.Errorf("unexpected diagnostic %+v", d)
	}
	if d.Location.File != "Module.bsl" {
		t.Errorf("Expected file=Module.bsl, got %s", d.Location.File)
	}
	if d.Location.StartByte != 13 || d.Location.EndByte != 26 {
		t.Errorf("unexpected byte range %d..%d", d.Location.StartByte, d.Location.EndByte)
	}
	// колонки в символах: "Б = " занимает четыре
	if d.Location.StartLine != 2 || d.Location.StartCol != 5 {
		t.Errorf("Expected 2:5, got %d:%d", d.Location.StartLine, d.Location.StartCol)
	}
	if d.Location.EndLine != 2 || d.Location.EndCol != 12 {
		t.Errorf("Expected end 2:12, got %d:%d", d.Location.EndLine, d.Location.EndCol)
	}
}

// TestJSONWithNotesAndFixes проверяет JSON с заметками и исправлениями
func TestJSONWithNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("Module.bsl", []byte("Перем А Экспорт;"))

	d := diag.New(diag.SevWarning, "ExportVariables", source.Span{File: fileID, Start: 11, End: 13}, "Не рекомендуется объявлять экспортные переменные")
	d = d.WithNote(source.Span{File: fileID, Start: 14, End: 28}, "ключевое слово Экспорт")
	d = d.WithTag(diag.TagDeprecated)
	d = d.WithFix("Удалить Экспорт", diag.TextEdit{Span: source.Span{File: fileID, Start: 13, End: 28}, NewText: ""})

	bag := diag.NewBag(10)
	bag.Add(d)

	var buf bytes.Buffer
	opts := JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true, IncludeFixes: true}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output JSONReport
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	got := output.Diagnostics[0]
	if len(got.Notes) != 1 || got.Notes[0].Message != "ключевое слово Экспорт" {
		t.Fatalf("unexpected notes %+v", got.Notes)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "deprecated" {
		t.Fatalf("unexpected tags %v", got.Tags)
	}
	if len(got.Fixes) != 1 {
		t.Fatalf("Expected 1 fix, got %d", len(got.Fixes))
	}
	fx := got.Fixes[0]
	if fx.Title != "Удалить Экспорт" || fx.Kind != "quickfix" || fx.Applicability != "always-safe" || fx.IsPreferred {
		t.Errorf("unexpected fix %+v", fx)
	}
	if len(fx.Edits) != 1 || fx.Edits[0].NewText != "" || fx.Edits[0].OldText != "" {
		t.Errorf("unexpected edits %+v", fx.Edits)
	}
}

// TestJSONWithoutPositions проверяет JSON без позиций строк/колонок
func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("Module.bsl", []byte("А = 42;"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevInfo, "LineLength", source.Span{File: fileID, Start: 4, End: 5}, "Info message"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output JSONReport
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	d := output.Diagnostics[0]
	// omitempty скрывает позиции, байтовые смещения есть всегда
	if d.Location.StartLine != 0 {
		t.Errorf("Expected start_line to be omitted (0), got %d", d.Location.StartLine)
	}
	if d.Location.StartByte != 4 {
		t.Errorf("Expected start_byte=4, got %d", d.Location.StartByte)
	}
	if bytes.Contains(buf.Bytes(), []byte("start_line")) {
		t.Errorf("start_line must not be serialized:\n%s", buf.String())
	}
}

// TestJSONMaxLimit проверяет ограничение количества диагностик
func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("Module.bsl", []byte("test content"))

	bag := diag.NewBag(10)
	for i := range uint32(5) {
		bag.Add(diag.New(diag.SevError, diag.LexUnknownChar, source.Span{File: fileID, Start: i, End: i + 1}, "Error message"))
	}

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename, Max: 3}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output JSONReport
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if output.Count != 3 || len(output.Diagnostics) != 3 {
		t.Errorf("Expected 3 diagnostics (limited), got %d", output.Count)
	}
}

// TestJSONPathModes проверяет различные режимы путей
func TestJSONPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	fileID := fs.AddVirtual("/home/user/project/src/CommonModules/Общий/Ext/Module.bsl", []byte("test"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnknownChar, source.Span{File: fileID, Start: 0, End: 1}, "Error"))

	tests := []struct {
		name     string
		pathMode PathMode
		expected string
	}{
		{"Absolute", PathModeAbsolute, "/home/user/project/src/CommonModules/Общий/Ext/Module.bsl"},
		{"Relative", PathModeRelative, "src/CommonModules/Общий/Ext/Module.bsl"},
		{"Basename", PathModeBasename, "Module.bsl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := JSON(&buf, bag, fs, JSONOpts{PathMode: tt.pathMode}); err != nil {
				t.Fatalf("JSON() error: %v", err)
			}
			var output JSONReport
			if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
				t.Fatalf("Invalid JSON output: %v", err)
			}
			if output.Diagnostics[0].Location.File != tt.expected {
				t.Errorf("Expected file=%s, got %s", tt.expected, output.Diagnostics[0].Location.File)
			}
		})
	}
}

func TestJSONFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("Module.bsl", []byte("//комментарий\nА = 1;"))

	insert := source.Span{File: fileID, Start: 2, End: 2}
	d := diag.New(diag.SevInfo, "SpaceAtStartComment", source.Span{File: fileID, Start: 0, End: 25}, "Нет пробела после //")
	d = d.WithFix("Добавить пробел", diag.TextEdit{Span: insert, NewText: " "})
	bag := diag.NewBag(2)
	bag.Add(d)

	var buf bytes.Buffer
	opts := JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeFixes: true, IncludePreviews: true}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output JSONReport
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	edit := output.Diagnostics[0].Fixes[0].Edits[0]
	if len(edit.BeforeLines) != 1 || edit.BeforeLines[0] != "//комментарий" {
		t.Errorf("Unexpected before lines: %q", edit.BeforeLines)
	}
	if len(edit.AfterLines) != 1 || edit.AfterLines[0] != "// комментарий" {
		t.Errorf("Unexpected after lines: %q", edit.AfterLines)
	}
}
