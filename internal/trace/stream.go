package trace

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// StreamTracer writes every event to w as it arrives.
type StreamTracer struct {
	level  Level
	format Format

	mu    sync.Mutex
	w     io.Writer
	buf   *bufio.Writer // только для файлов, открытых через New
	owned io.Closer
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{level: level, format: format, w: w}
}

// newFileStream buffers writes and closes f on Close.
func newFileStream(f io.WriteCloser, level Level, format Format) *StreamTracer {
	bw := bufio.NewWriter(f)
	return &StreamTracer{level: level, format: format, w: bw, buf: bw, owned: f}
}

// Emit drops write errors: a broken trace sink must not stop analysis.
func (s *StreamTracer) Emit(ev *Event) {
	if !s.level.ShouldEmit(ev.Kind, ev.Scope) {
		return
	}
	ev.Seq = nextSeq()
	line := FormatEvent(ev, s.format)

	s.mu.Lock()
	_, _ = s.w.Write(line)
	s.mu.Unlock()
}

func (s *StreamTracer) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return nil
	}
	return s.buf.Flush()
}

// Close flushes and closes the file opened by New; caller-provided writers stay open.
func (s *StreamTracer) Close() error {
	err := s.Flush()
	if s.owned != nil {
		err = errors.Join(err, s.owned.Close())
		s.owned = nil
	}
	return err
}

func (s *StreamTracer) Level() Level { return s.level }
