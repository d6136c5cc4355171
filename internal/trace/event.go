package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	// KindPoint is an instant event.
	KindPoint
	// KindError is an instant failure: паника правила, ошибка чтения.
	KindError
	KindHeartbeat
)

var kindNames = [...]string{"unknown", "begin", "end", "point", "error", "heartbeat"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[0]
}

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	ScopeRun Scope = iota + 1
	ScopeDocument
	ScopePhase
	ScopeRule
)

var scopeNames = [...]string{"unknown", "run", "document", "phase", "rule"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return scopeNames[0]
}

// Event is one trace record. Seq is stamped by the tracer that stores it.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 у корневых
	GID      uint64
	Name     string // "doc:Module.bsl", "phase:rules", "rule:UnreachableCode"
	Detail   string
	Extra    map[string]string
}
