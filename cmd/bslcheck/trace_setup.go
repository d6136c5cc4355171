package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"bslcheck/internal/trace"
)

type traceFlags struct {
	output    string
	level     trace.Level
	mode      trace.StorageMode
	format    trace.Format
	ringSize  int
	heartbeat time.Duration
}

func readTraceFlags(pf *pflag.FlagSet) (traceFlags, error) {
	var (
		tf                      traceFlags
		levelStr, modeStr, fStr string
		err                     error
	)
	get := func(name string, dst *string) {
		if err == nil {
			*dst, err = pf.GetString(name)
		}
	}
	get("trace", &tf.output)
	get("trace-level", &levelStr)
	get("trace-mode", &modeStr)
	get("trace-format", &fStr)
	if err == nil {
		tf.ringSize, err = pf.GetInt("trace-ring-size")
	}
	if err == nil {
		tf.heartbeat, err = pf.GetDuration("trace-heartbeat")
	}
	if err != nil {
		return tf, fmt.Errorf("trace flags: %w", err)
	}

	if tf.level, err = trace.ParseLevel(levelStr); err != nil {
		return tf, err
	}
	// --trace без уровня включает фазы
	if tf.level == trace.LevelOff && tf.output != "" {
		tf.level = trace.LevelPhase
	}
	if tf.output == "" {
		tf.output = "-"
	}
	if tf.mode, err = trace.ParseMode(modeStr); err != nil {
		return tf, err
	}
	tf.format, err = trace.ParseFormat(fStr)
	return tf, err
}

// setupTracing attaches the tracer chosen by the trace flags to the command
// context. The returned cleanup stops the heartbeat, dumps a ring-only
// tracer to the trace output and closes everything.
func setupTracing(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()
	tf, err := readTraceFlags(root.PersistentFlags())
	if err != nil {
		return nil, err
	}
	if tf.level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	tracer, err := trace.New(trace.Config{
		Level:      tf.level,
		Mode:       tf.mode,
		Format:     tf.format,
		OutputPath: tf.output,
		RingSize:   tf.ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	root.SetContext(ctx)
	heartbeat := trace.StartHeartbeat(tracer, tf.heartbeat)

	report := func(what string, err error) {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: %s: %v\n", what, err)
		}
	}
	return func() {
		heartbeat.Stop()
		if ring, ok := tracer.(*trace.RingTracer); ok {
			report("dump", dumpRing(ring, tf.output, trace.ResolveFormat(tf.format, tf.output)))
		}
		report("flush", tracer.Flush())
		report("close", tracer.Close())
	}, nil
}

func dumpRing(ring *trace.RingTracer, output string, format trace.Format) error {
	var w io.Writer = os.Stderr
	if output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return ring.Dump(w, format)
}
