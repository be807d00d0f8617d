package trace

import "time"

// Kind says whether an event opens a span, closes one, or stands alone.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

var kindNames = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is how fine-grained an event is. Coarser scopes compare lower.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // discovery, scheduling, output
	ScopeFile                    // one file
	ScopeRule                    // one rule on one file
	ScopeNode                    // one node dispatch
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopeFile: "file", ScopeRule: "rule", ScopeNode: "node"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one record. Seq is stamped by the tracer that stores it.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	GID      uint64
	Name     string // "lint", "file:src/a.ts", "rule:param-types"
	Detail   string
	Extra    map[string]string
}
