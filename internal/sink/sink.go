package sink

import "codecrawl/internal/crawler"

// ChannelSink forwards events into a channel. When Done is closed the
// sink stops blocking and drops events, so a consumer that went away
// cannot stall the crawl.
type ChannelSink struct {
	Ch   chan<- crawler.Event
	Done <-chan struct{}
}

func (s ChannelSink) OnEvent(ev crawler.Event) {
	if s.Ch == nil {
		return
	}
	if s.Done == nil {
		s.Ch <- ev
		return
	}
	select {
	case s.Ch <- ev:
	case <-s.Done:
	}
}

// Multi fans events out to every non-nil sink in order. A sink that
// panics loses the event; the sinks after it still receive it.
type Multi []crawler.Sink

func (m Multi) OnEvent(ev crawler.Event) {
	for _, s := range m {
		if s != nil {
			deliver(s, ev)
		}
	}
}

func deliver(s crawler.Sink, ev crawler.Event) {
	defer func() { _ = recover() }()
	s.OnEvent(ev)
}

// Nop discards events.
type Nop struct{}

func (Nop) OnEvent(crawler.Event) {}

// Join returns a single sink for the given ones, dropping nils.
func Join(sinks ...crawler.Sink) crawler.Sink {
	var out Multi
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return Nop{}
	case 1:
		return out[0]
	}
	return out
}
