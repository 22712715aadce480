package prolog

import (
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Port names the four ISO trace ports (§6.4).
type Port int

const (
	PortCall Port = iota
	PortExit
	PortRedo
	PortFail
)

func (p Port) String() string {
	switch p {
	case PortCall:
		return "call"
	case PortExit:
		return "exit"
	case PortRedo:
		return "redo"
	case PortFail:
		return "fail"
	}
	return "unknown"
}

// TraceEvent is delivered to a TraceCallback at each port crossing.
type TraceEvent struct {
	Port  Port
	Goal  Term
	Depth int
}

// TraceCallback observes trace events. Returning false aborts the
// running query (§6.4: "the callback can abort the query by returning
// false").
type TraceCallback func(TraceEvent) bool

// Tracer is the resolver's trace port (§6.4), adapted from
// context_utils.go's ContextMonitor idiom: a per-query monitoring
// session identified by a uuid, reporting through structured logging in
// addition to invoking the user's callback.
type Tracer struct {
	sessionID string
	logger    hclog.Logger
	callback  TraceCallback

	mu      sync.Mutex
	aborted bool
}

// NewTracer creates a trace port that logs through logger (may be nil
// for no logging) and invokes callback (may be nil to only log).
func NewTracer(logger hclog.Logger, callback TraceCallback) *Tracer {
	return &Tracer{
		sessionID: uuid.NewString(),
		logger:    logger,
		callback:  callback,
	}
}

// Aborted reports whether the callback has requested the query stop.
func (t *Tracer) Aborted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.aborted
}

func (t *Tracer) emit(port Port, goal Term, depth int) {
	if t.logger != nil {
		t.logger.Trace("trace port", "session", t.sessionID, "port", port.String(), "goal", goal.String(), "depth", depth)
	}
	if t.callback == nil {
		return
	}
	if !t.callback(TraceEvent{Port: port, Goal: goal, Depth: depth}) {
		t.mu.Lock()
		t.aborted = true
		t.mu.Unlock()
	}
}

// Call reports a Call port crossing.
func (t *Tracer) Call(goal Term, depth int) { t.emit(PortCall, goal, depth) }

// Exit reports an Exit port crossing.
func (t *Tracer) Exit(goal Term, depth int) { t.emit(PortExit, goal, depth) }

// Redo reports a Redo port crossing.
func (t *Tracer) Redo(goal Term, depth int) { t.emit(PortRedo, goal, depth) }

// Fail reports a Fail port crossing.
func (t *Tracer) Fail(goal Term, depth int) { t.emit(PortFail, goal, depth) }
