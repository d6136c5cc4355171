package slogutil

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, slog.LevelDebug, false))
	l.With("rule", "UnreachableCode").WithGroup("doc").Info("rule panicked", "path", "a b.bsl", "line", 3)

	out := buf.String()
	want := `[info] rule panicked | rule=UnreachableCode doc.path="a b.bsl" doc.line=3`
	if !strings.Contains(out, want) {
		t.Fatalf("got %q, want substring %q", out, want)
	}
}

func TestHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, slog.LevelWarn, false))
	l.Info("skip")
	l.Warn("keep")
	if strings.Contains(buf.String(), "skip") || !strings.Contains(buf.String(), "[warn] keep") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestLevelHelpers(t *testing.T) {
	if LevelFromString("WARNING") != slog.LevelWarn || LevelFromString("?") != slog.LevelInfo {
		t.Fatalf("LevelFromString mismatch")
	}
	if LevelFromVerbosity(0, true) != LevelSilent || LevelFromVerbosity(2, false) != slog.LevelDebug {
		t.Fatalf("LevelFromVerbosity mismatch")
	}
	if OrDiscard(nil) == nil {
		t.Fatalf("OrDiscard(nil) returned nil")
	}
}
