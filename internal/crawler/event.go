package crawler

import (
	"time"

	"codecrawl/internal/fault"
)

// EventKind identifies a crawl event.
type EventKind uint8

const (
	EventRunBegin EventKind = iota + 1
	EventTypeBegin
	EventInstanceCreated
	EventMemberBegin
	EventInvocation
	EventFault
	EventMemberEnd
	EventTypeEnd
	EventCancelled
	EventRunEnd
)

func (k EventKind) String() string {
	switch k {
	case EventRunBegin:
		return "run-begin"
	case EventTypeBegin:
		return "type-begin"
	case EventInstanceCreated:
		return "instance-created"
	case EventMemberBegin:
		return "member-begin"
	case EventInvocation:
		return "invocation"
	case EventFault:
		return "fault"
	case EventMemberEnd:
		return "member-end"
	case EventTypeEnd:
		return "type-end"
	case EventCancelled:
		return "cancelled"
	case EventRunEnd:
		return "run-end"
	}
	return "unknown"
}

// Event is an informational progress record. Sinks may ignore any of them;
// the Report is the only contract of a crawl.
type Event struct {
	Kind    EventKind
	RunID   string
	Type    string
	Member  string
	Variant int    // forced parameter for invocations, -1 for the base call
	Args    string // rendered argument tuple for invocations
	Fault   *fault.Fault
	Faults  int // running fault count on *End events
	Index   int // type position in the catalog
	Total   int // number of types in the catalog
	Elapsed time.Duration
}

// Sink consumes crawl events.
type Sink interface {
	OnEvent(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (fn SinkFunc) OnEvent(ev Event) {
	if fn != nil {
		fn(ev)
	}
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
