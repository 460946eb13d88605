package sink

import (
	"strconv"
	"sync"

	"codecrawl/internal/crawler"
	"codecrawl/internal/trace"
)

// Trace turns crawl events into run/type/member spans and call points.
type Trace struct {
	tracer trace.Tracer

	mu     sync.Mutex
	run    *trace.Span
	typ    *trace.Span
	member *trace.Span
}

// NewTrace returns a sink emitting to t.
func NewTrace(t trace.Tracer) *Trace {
	if t == nil {
		t = trace.Nop
	}
	return &Trace{tracer: t}
}

func (s *Trace) OnEvent(ev crawler.Event) {
	if !s.tracer.Enabled() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case crawler.EventRunBegin:
		s.run = trace.Begin(s.tracer, trace.ScopeRun, "run", 0).
			WithExtra("run_id", ev.RunID).
			WithExtra("types", strconv.Itoa(ev.Total))
	case crawler.EventTypeBegin:
		s.typ = trace.Begin(s.tracer, trace.ScopeType, ev.Type, s.run.ID())
	case crawler.EventMemberBegin:
		s.member = trace.Begin(s.tracer, trace.ScopeMember, ev.Member, s.typ.ID())
	case crawler.EventInvocation:
		trace.Point(s.tracer, trace.ScopeCall, ev.Member, ev.Args, s.member.ID(), map[string]string{
			"variant": strconv.Itoa(ev.Variant),
		})
	case crawler.EventFault:
		if ev.Fault == nil {
			return
		}
		scope, parent := trace.ScopeMember, s.member.ID()
		if ev.Member == "" {
			scope, parent = trace.ScopeType, s.typ.ID()
		}
		trace.Point(s.tracer, scope, "fault", ev.Fault.String(), parent, map[string]string{
			"code": ev.Fault.Code.String(),
			"kind": ev.Fault.Kind.String(),
		})
	case crawler.EventMemberEnd:
		s.member.WithExtra("faults", strconv.Itoa(ev.Faults)).End("")
		s.member = nil
	case crawler.EventTypeEnd:
		s.typ.WithExtra("faults", strconv.Itoa(ev.Faults)).End("")
		s.typ = nil
	case crawler.EventCancelled:
		trace.Point(s.tracer, trace.ScopeRun, "cancelled", "", s.run.ID(), nil)
	case crawler.EventRunEnd:
		s.run.WithExtra("faults", strconv.Itoa(ev.Faults)).End("")
		s.run = nil
	}
}
