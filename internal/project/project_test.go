package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "CommonModules", "Общий", "Ext")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfg := filepath.Join(root, ConfigName)
	if err := os.WriteFile(cfg, []byte("[diagnostics]\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	module := filepath.Join(nested, "Module.bsl")
	if err := os.WriteFile(module, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, ok, err := FindConfig(module)
	if err != nil || !ok || got != cfg {
		t.Fatalf("FindConfig = %q, %v, %v", got, ok, err)
	}
}

func TestFindConfigStopsAtRepoRoot(t *testing.T) {
	outer := t.TempDir()
	if err := os.WriteFile(filepath.Join(outer, ConfigName), nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	repo := filepath.Join(outer, "repo")
	nested := filepath.Join(repo, "src")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, ok, err := FindConfig(nested); err != nil || ok {
		t.Fatalf("lookup must stop at the repository root: ok=%v err=%v", ok, err)
	}

	hidden := filepath.Join(repo, "."+ConfigName)
	if err := os.WriteFile(hidden, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, ok, err := FindConfig(nested)
	if err != nil || !ok || got != hidden {
		t.Fatalf("FindConfig = %q, %v, %v", got, ok, err)
	}
}

func TestCombineDependsOnParts(t *testing.T) {
	content := Hash([]byte("Процедура П()\nКонецПроцедуры\n"))
	a := Combine(content, Hash([]byte("mode=on")))
	b := Combine(content, Hash([]byte("mode=all")))
	if a == b || a.IsZero() {
		t.Fatalf("keys must differ: %s %s", a, b)
	}
	if Combine(content, Hash([]byte("mode=on"))) != a {
		t.Fatalf("Combine must be deterministic")
	}
}
