package driver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"bslcheck/internal/config"
	"bslcheck/internal/diag"
)

const unreachable = "Процедура П()\n\tВозврат;\n\tА = 1;\nКонецПроцедуры\n"

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return dir
}

func count(ds []diag.Diagnostic, code diag.Code) int {
	n := 0
	for _, d := range ds {
		if d.Code == code {
			n++
		}
	}
	return n
}

func TestListSourcesSortedAndFiltered(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"b/Module.bsl":  "",
		"a/script.os":   "",
		"a/readme.md":   "",
		".git/hook.bsl": "",
		"Upper.BSL":     "",
	})
	got, err := ListSources(dir)
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}
	want := []string{
		filepath.Join(dir, "Upper.BSL"),
		filepath.Join(dir, "a", "script.os"),
		filepath.Join(dir, "b", "Module.bsl"),
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestAnalyzeDirKeepsFileOrder(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.bsl": unreachable,
		"b.bsl": "А = 1;\n",
		"c.os":  unreachable,
	})
	var mu sync.Mutex
	done := map[string]int{}
	sink := SinkFunc(func(ev Event) {
		if ev.Status == StatusDone {
			mu.Lock()
			done[filepath.Base(ev.File)]++
			mu.Unlock()
		}
	})
	run, err := AnalyzeDir(context.Background(), dir, Options{Jobs: 2, Progress: sink})
	if err != nil {
		t.Fatalf("AnalyzeDir: %v", err)
	}
	if len(run.Files) != 3 {
		t.Fatalf("expected 3 results, got %d", len(run.Files))
	}
	for i, name := range []string{"a.bsl", "b.bsl", "c.os"} {
		if filepath.Base(run.Files[i].Path) != name {
			t.Fatalf("result %d is %s, want %s", i, run.Files[i].Path, name)
		}
		if run.Files[i].Err != nil {
			t.Fatalf("%s: %v", name, run.Files[i].Err)
		}
		if done[name] != 1 {
			t.Fatalf("%s: expected one done event, got %d", name, done[name])
		}
	}
	if count(run.Files[0].Diagnostics, "UnreachableCode") != 1 || count(run.Files[2].Diagnostics, "UnreachableCode") != 1 {
		t.Fatalf("unreachable code not reported: %v", run.Diagnostics())
	}
	if count(run.Files[1].Diagnostics, "UnreachableCode") != 0 {
		t.Fatalf("clean file reported unreachable code")
	}
}

func TestAnalyzeFilesReportsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.bsl")
	run, err := AnalyzeFiles(context.Background(), nil, []string{missing}, Options{})
	if err != nil {
		t.Fatalf("AnalyzeFiles: %v", err)
	}
	res := run.Files[0]
	if res.Err == nil || count(res.Diagnostics, diag.IOLoadFileError) != 1 {
		t.Fatalf("expected load error, got %+v", res)
	}
	if !run.HasErrors() {
		t.Fatalf("load failure must count as an error")
	}
}

func TestAnalyzeFilesUsesCache(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.bsl": unreachable})
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	paths := []string{filepath.Join(dir, "a.bsl")}

	first, err := AnalyzeFiles(context.Background(), nil, paths, Options{Cache: cache})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Files[0].Cached {
		t.Fatalf("first run cannot hit the cache")
	}

	second, err := AnalyzeFiles(context.Background(), nil, paths, Options{Cache: cache})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second.Files[0].Cached || second.Files[0].Doc != nil {
		t.Fatalf("second run must come from the cache")
	}
	a, b := first.Files[0].Diagnostics, second.Files[0].Diagnostics
	if len(a) != len(b) {
		t.Fatalf("cached diagnostics differ: %v vs %v", a, b)
	}
	for i := range a {
		if a[i].Code != b[i].Code || a[i].Message != b[i].Message ||
			a[i].Primary.Start != b[i].Primary.Start || a[i].Primary.End != b[i].Primary.End ||
			len(a[i].Notes) != len(b[i].Notes) || len(a[i].Tags) != len(b[i].Tags) {
			t.Fatalf("diagnostic %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}

	// другие настройки дают другой ключ
	s := config.Default()
	s.MinimumLevel = diag.SevError
	third, err := AnalyzeFiles(context.Background(), nil, paths, Options{Cache: cache, Settings: &s})
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if third.Files[0].Cached {
		t.Fatalf("changed settings must miss the cache")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	fourth, err := AnalyzeFiles(context.Background(), nil, paths, Options{Cache: cache})
	if err != nil {
		t.Fatalf("fourth run: %v", err)
	}
	if fourth.Files[0].Cached {
		t.Fatalf("dropped cache must miss")
	}
}

func TestAnalyzeFilesCancelled(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.bsl": unreachable, "b.bsl": unreachable})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := AnalyzeDir(ctx, dir, Options{Jobs: 1})
	if err == nil {
		t.Fatalf("expected cancellation error")
	}
}
