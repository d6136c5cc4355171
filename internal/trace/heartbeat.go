package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a tick every interval. Пока тики идут, а спаны не
// закрываются, видно, что прогон завис.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat returns nil when tracing is off or interval is not positive.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if !enabled(t) || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.loop(t, interval)
	return h
}

func (h *Heartbeat) loop(t Tracer, interval time.Duration) {
	defer close(h.done)
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for n := 1; ; n++ {
		select {
		case <-h.stop:
			return
		case now := <-tick.C:
			t.Emit(&Event{Time: now, Kind: KindHeartbeat, Scope: ScopeRun, GID: gid(), Name: "heartbeat", Detail: "#" + strconv.Itoa(n)})
		}
	}
}

// Stop ends the ticker goroutine and waits for it. Nil-safe and idempotent.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
