package trace

import (
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var seqCounter, spanCounter atomic.Uint64

func nextSeq() uint64 { return seqCounter.Add(1) }

// gid достаёт номер горутины из заголовка runtime.Stack; 0 при неудаче.
func gid() uint64 {
	var buf [64]byte
	header := strings.TrimPrefix(string(buf[:runtime.Stack(buf[:], false)]), "goroutine ")
	num, _, _ := strings.Cut(header, " ")
	n, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Span is one begin/end pair. A zero-id span belongs to a disabled tracer
// and only measures time.
type Span struct {
	t      Tracer
	begin  Event
	extra  map[string]string
	closed bool
}

// Begin emits the begin event under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	s := &Span{t: Nop, begin: Event{Time: time.Now(), Kind: KindSpanBegin, Scope: scope, Name: name, ParentID: parent}}
	if !enabled(t) || !t.Level().ShouldEmit(KindSpanBegin, scope) {
		return s
	}
	s.t = t
	s.begin.SpanID = spanCounter.Add(1)
	s.begin.GID = gid()
	ev := s.begin
	t.Emit(&ev)
	return s
}

// End emits the end event once and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	d := time.Since(s.begin.Time)
	if s.closed || s.begin.SpanID == 0 {
		return d
	}
	s.closed = true
	ev := s.begin
	ev.Time = time.Now()
	ev.Kind = KindSpanEnd
	ev.Detail = detail
	ev.Extra = s.extra
	s.t.Emit(&ev)
	return d
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.begin.SpanID == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = map[string]string{}
	}
	s.extra[key] = value
	return s
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.begin.SpanID
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	instant(t, Event{Kind: KindPoint, Scope: scope, Name: name, Detail: detail, ParentID: parent})
}

// Error emits a failure event; every level except off keeps it.
func Error(t Tracer, scope Scope, name, detail string, parent uint64, extra map[string]string) {
	instant(t, Event{Kind: KindError, Scope: scope, Name: name, Detail: detail, ParentID: parent, Extra: extra})
}

func instant(t Tracer, ev Event) {
	if !enabled(t) || !t.Level().ShouldEmit(ev.Kind, ev.Scope) {
		return
	}
	ev.Time = time.Now()
	ev.GID = gid()
	t.Emit(&ev)
}
