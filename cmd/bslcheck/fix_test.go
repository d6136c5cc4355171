package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bslcheck/internal/config"
	"bslcheck/internal/driver"
	"bslcheck/internal/engine"
	"bslcheck/internal/fix"
	"bslcheck/internal/source"
)

func TestFixApplyOptions(t *testing.T) {
	opts, err := fixApplyOptions(false, false, "", "")
	if err != nil || opts.Mode != fix.ApplyModeOnce {
		t.Fatalf("default = %+v, %v; want once", opts, err)
	}
	opts, err = fixApplyOptions(false, false, "", " LineLength ")
	if err != nil || opts.Mode != fix.ApplyModeCode || opts.TargetCode != "LineLength" {
		t.Fatalf("--code = %+v, %v", opts, err)
	}
	opts, err = fixApplyOptions(false, false, "abc", "")
	if err != nil || opts.Mode != fix.ApplyModeID || opts.TargetID != "abc" {
		t.Fatalf("--id = %+v, %v", opts, err)
	}
	for _, bad := range []struct {
		all, once bool
		id, code  string
	}{
		{all: true, once: true},
		{all: true, id: "x"},
		{once: true, code: "LineLength"},
		{id: "x", code: "LineLength"},
	} {
		if _, err := fixApplyOptions(bad.all, bad.once, bad.id, bad.code); err == nil {
			t.Fatalf("expected conflict error for %+v", bad)
		}
	}
}

func TestCollectFixesDryRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Module.bsl")
	original := "//комментарий\n"
	if err := os.WriteFile(path, []byte(original), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	eng := engine.New(engine.Options{})
	settings := config.Default()
	fileSet := source.NewFileSetWithBase(dir)
	run, err := driver.AnalyzeFiles(context.Background(), fileSet, []string{path}, driver.Options{
		Engine:   eng,
		Settings: &settings,
		Jobs:     1,
	})
	if err != nil {
		t.Fatalf("AnalyzeFiles: %v", err)
	}

	fixes := collectFixes(eng, run)
	if len(fixes) == 0 {
		t.Fatalf("expected quick fixes for the comment")
	}
	res, err := fix.Apply(run.FileSet, fixes, fix.ApplyOptions{
		Mode:       fix.ApplyModeCode,
		TargetCode: "SpaceAtStartComment",
		DryRun:     true,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("applied %d fixes, want 1", len(res.Applied))
	}
	var got string
	for _, buf := range res.Buffers {
		got = string(buf)
	}
	if got != "// комментарий\n" {
		t.Fatalf("buffer = %q", got)
	}
	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(onDisk) != original {
		t.Fatalf("dry run must not touch the file, got %q", onDisk)
	}

	var out bytes.Buffer
	if err := printApplyResult(&out, res, nil, true); err != nil {
		t.Fatalf("printApplyResult: %v", err)
	}
	if !strings.Contains(out.String(), "Would apply 1 fix(es)") {
		t.Fatalf("unexpected report:\n%s", out.String())
	}
}

func TestHandleApplyResultNoFixes(t *testing.T) {
	var out bytes.Buffer
	res := &fix.ApplyResult{}
	if err := printApplyResult(&out, res, fix.ErrNoFixes, false); err != nil {
		t.Fatalf("ErrNoFixes must not fail: %v", err)
	}
	if !strings.Contains(out.String(), "No applicable fixes found.") {
		t.Fatalf("unexpected report: %q", out.String())
	}
}
