package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLevelFiltering(t *testing.T) {
	if LevelPhase.ShouldEmit(KindSpanBegin, ScopeRule) {
		t.Fatalf("phase level must drop rule spans")
	}
	if !LevelPhase.ShouldEmit(KindSpanBegin, ScopeDocument) {
		t.Fatalf("phase level must keep document spans")
	}
	if !LevelError.ShouldEmit(KindError, ScopeRule) {
		t.Fatalf("error events pass the error level")
	}
	if LevelError.ShouldEmit(KindPoint, ScopeRun) {
		t.Fatalf("error level drops plain points")
	}
	if LevelOff.ShouldEmit(KindError, ScopeRun) {
		t.Fatalf("off drops everything")
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestRingTracerWrapsInOrder(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeRun, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot len = %d", len(snap))
	}
	got := snap[0].Name + snap[1].Name + snap[2].Name
	if got != "cde" {
		t.Fatalf("snapshot order = %q, want cde", got)
	}
	if snap[0].Seq >= snap[2].Seq {
		t.Fatalf("seq must grow: %d, %d", snap[0].Seq, snap[2].Seq)
	}
}

func TestStreamNDJSONAndSpanParenting(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	ctx, doc := Start(ctx, ScopeDocument, "doc:Module.bsl")
	_, rule := Start(ctx, ScopeRule, "rule:UnreachableCode")
	rule.WithExtra("diagnostics", "2").End("")
	doc.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Kind != "end" || ev.Scope != "rule" || ev.ParentID != doc.ID() || ev.Extra["diagnostics"] != "2" {
		t.Fatalf("unexpected rule end event %+v", ev)
	}
}

func TestDisabledSpanStillMeasures(t *testing.T) {
	s := Begin(Nop, ScopeRun, "x", 0)
	if s.ID() != 0 {
		t.Fatalf("nop span must not get an id")
	}
	if s.End("") < 0 {
		t.Fatalf("negative duration")
	}
}

func TestTextFormatSortsExtra(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)
	Error(tr, ScopeRule, "rule:Broken", "panic", 0, map[string]string{"b": "2", "a": "1"})
	out := buf.String()
	if !strings.Contains(out, "! rule:Broken (panic) {a=1, b=2}") {
		t.Fatalf("unexpected text %q", out)
	}
}

func TestTeeFansOut(t *testing.T) {
	a := NewRingTracer(8, LevelDebug)
	b := NewRingTracer(8, LevelError)
	tee := Tee{a, b}
	if tee.Level() != LevelDebug {
		t.Fatalf("tee level = %v", tee.Level())
	}
	Point(tee, ScopePhase, "select", "", 0)
	Error(tee, ScopeRule, "rule:X", "boom", 0, nil)
	if len(a.Snapshot()) != 2 || len(b.Snapshot()) != 1 {
		t.Fatalf("a=%d b=%d", len(a.Snapshot()), len(b.Snapshot()))
	}
}

func TestNewByMode(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop {
		t.Fatalf("off must give Nop: %v %v", tr, err)
	}
	tr, err = New(Config{Level: LevelPhase, Mode: ModeRing, RingSize: 2})
	if err != nil {
		t.Fatalf("ring: %v", err)
	}
	if _, ok := tr.(*RingTracer); !ok {
		t.Fatalf("ring mode gave %T", tr)
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestFileStreamFlushesOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")
	tr, err := New(Config{Level: LevelPhase, OutputPath: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	Point(tr, ScopeRun, "start", "", 0)
	if err := tr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "{") || !strings.Contains(string(data), `"name":"start"`) {
		t.Fatalf("unexpected file content %q", data)
	}
}

func TestHeartbeatStops(t *testing.T) {
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatalf("heartbeat on Nop must be nil")
	}
	ring := NewRingTracer(16, LevelError)
	h := StartHeartbeat(ring, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	h.Stop()
	h.Stop()
	if len(ring.Snapshot()) == 0 {
		t.Fatalf("no heartbeat recorded")
	}
}
