package main

import (
	"testing"

	"github.com/spf13/pflag"

	"bslcheck/internal/trace"
)

func traceFlagSet(args ...string) *pflag.FlagSet {
	pf := pflag.NewFlagSet("test", pflag.ContinueOnError)
	pf.String("trace", "", "")
	pf.String("trace-level", "off", "")
	pf.String("trace-mode", "stream", "")
	pf.String("trace-format", "auto", "")
	pf.Int("trace-ring-size", 4096, "")
	pf.Duration("trace-heartbeat", 0, "")
	if err := pf.Parse(args); err != nil {
		panic(err)
	}
	return pf
}

func TestReadTraceFlags(t *testing.T) {
	tf, err := readTraceFlags(traceFlagSet())
	if err != nil || tf.level != trace.LevelOff {
		t.Fatalf("defaults: %+v, %v", tf, err)
	}

	tf, err = readTraceFlags(traceFlagSet("--trace", "run.ndjson", "--trace-mode", "ring"))
	if err != nil {
		t.Fatalf("readTraceFlags: %v", err)
	}
	if tf.level != trace.LevelPhase || tf.mode != trace.ModeRing || tf.output != "run.ndjson" {
		t.Fatalf("unexpected flags %+v", tf)
	}
	if trace.ResolveFormat(tf.format, tf.output) != trace.FormatNDJSON {
		t.Fatalf("ndjson extension must select ndjson")
	}

	if _, err := readTraceFlags(traceFlagSet("--trace-level", "loud")); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
