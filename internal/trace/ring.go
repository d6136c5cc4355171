package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the last events in memory; older ones are overwritten.
type RingTracer struct {
	level Level

	mu      sync.Mutex
	buf     []Event
	written uint64
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{level: level, buf: make([]Event, capacity)}
}

func (r *RingTracer) Emit(ev *Event) {
	if !r.level.ShouldEmit(ev.Kind, ev.Scope) {
		return
	}
	stored := *ev
	stored.Seq = nextSeq()

	r.mu.Lock()
	r.buf[r.written%uint64(len(r.buf))] = stored
	r.written++
	r.mu.Unlock()
}

// Snapshot copies the kept events, oldest first.
func (r *RingTracer) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := uint64(len(r.buf))
	n := min(r.written, size)
	out := make([]Event, 0, n)
	for i := r.written - n; i < r.written; i++ {
		out = append(out, r.buf[i%size])
	}
	return out
}

// Dump writes the kept events to w.
func (r *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range r.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (r *RingTracer) Level() Level { return r.level }
func (r *RingTracer) Flush() error { return nil }
func (r *RingTracer) Close() error { return nil }
