// Package observ measures analysis phases and aggregates them across files.
package observ

import (
	"time"
)

// Timer records sequential phases of one document analysis. A nil *Timer is
// valid and records nothing, so callers need no "timings enabled" checks.
type Timer struct {
	phases []phase
}

type phase struct {
	name string
	dur  time.Duration
	note string
}

func NewTimer() *Timer { return &Timer{phases: make([]phase, 0, 8)} }

// Phase starts a phase; the returned func ends it with an optional note.
func (t *Timer) Phase(name string) func(note string) {
	if t == nil {
		return func(string) {}
	}
	idx := len(t.phases)
	t.phases = append(t.phases, phase{name: name})
	start := time.Now()
	return func(note string) {
		p := &t.phases[idx]
		p.dur = time.Since(start)
		p.note = note
	}
}

// PhaseReport is one measured phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is the timing of one analyzed document.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report returns nil for a nil or empty timer.
func (t *Timer) Report() *Report {
	if t == nil || len(t.phases) == 0 {
		return nil
	}
	r := &Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, p := range t.phases {
		total += p.dur
		r.Phases[i] = PhaseReport{Name: p.name, DurationMS: millis(p.dur), Note: p.note}
	}
	r.TotalMS = millis(total)
	return r
}

// Aggregate sums reports of many documents phase by phase.
type Aggregate struct {
	Files   int
	TotalMS float64
	// Phases keep first-seen order; notes are dropped.
	Phases []PhaseReport
	// Slowest is the label of the document with the largest TotalMS.
	Slowest   string
	SlowestMS float64
	index     map[string]int
}

// Add folds one document report in; nil reports (cached or failed files) are
// skipped.
func (a *Aggregate) Add(label string, r *Report) {
	if r == nil {
		return
	}
	if a.index == nil {
		a.index = make(map[string]int)
	}
	a.Files++
	a.TotalMS += r.TotalMS
	if r.TotalMS > a.SlowestMS {
		a.Slowest, a.SlowestMS = label, r.TotalMS
	}
	for _, p := range r.Phases {
		i, ok := a.index[p.Name]
		if !ok {
			i = len(a.Phases)
			a.index[p.Name] = i
			a.Phases = append(a.Phases, PhaseReport{Name: p.Name})
		}
		a.Phases[i].DurationMS += p.DurationMS
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
