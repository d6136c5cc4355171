package main

import (
	"fmt"
	"io"

	"bslcheck/internal/driver"
	"bslcheck/internal/observ"
)

// printTimings sums per-phase durations over every analyzed file. Файлы из
// кэша не анализировались и в сумму не входят.
func printTimings(out io.Writer, run *driver.Run) {
	if out == nil || run == nil {
		return
	}
	var agg observ.Aggregate
	for _, f := range run.Files {
		agg.Add(f.Path, f.Timing)
	}
	if agg.Files == 0 {
		return
	}
	fmt.Fprintf(out, "timings (%d file(s)):\n", agg.Files)
	for _, p := range agg.Phases {
		fmt.Fprintf(out, "  %-20s %9.2f ms\n", p.Name, p.DurationMS)
	}
	fmt.Fprintf(out, "  %-20s %9.2f ms\n", "total", agg.TotalMS)
	fmt.Fprintf(out, "  slowest: %s (%.2f ms)\n", agg.Slowest, agg.SlowestMS)
}
