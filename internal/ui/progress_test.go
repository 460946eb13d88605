package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"codecrawl/internal/crawler"
	"codecrawl/internal/fault"
)

func TestApplyEvents(t *testing.T) {
	events := make(chan crawler.Event)
	m := NewProgressModel("crawl", []string{"A", "B", "C"}, events).(*progressModel)

	broken := fault.Construction(fault.ConstructionFailed, "B", nil)
	panicked := fault.New(fault.InvocationPanicked, "A", "Run", fault.BaseVariant, nil)
	for _, ev := range []crawler.Event{
		{Kind: crawler.EventTypeBegin, Type: "A"},
		{Kind: crawler.EventMemberBegin, Type: "A", Member: "Run"},
		{Kind: crawler.EventFault, Type: "A", Member: "Run", Fault: &panicked},
		{Kind: crawler.EventTypeEnd, Type: "A"},
		{Kind: crawler.EventTypeBegin, Type: "B"},
		{Kind: crawler.EventFault, Type: "B", Fault: &broken},
		{Kind: crawler.EventTypeEnd, Type: "B"},
		{Kind: crawler.EventTypeBegin, Type: "C"},
		{Kind: crawler.EventCancelled},
	} {
		m.applyEvent(ev)
	}

	want := []string{statusFaults, statusBroken, statusCancelled}
	for i, item := range m.items {
		if item.status != want[i] {
			t.Errorf("%s status = %s, want %s", item.name, item.status, want[i])
		}
	}
	if m.faults != 2 || !m.cancelled {
		t.Fatalf("faults = %d cancelled = %v", m.faults, m.cancelled)
	}
	if p := m.percent(); p < 0.66 || p > 0.67 {
		t.Fatalf("percent = %v", p)
	}

	view := m.View()
	if !strings.Contains(view, "cancelled: crawl (2 faults)") || !strings.Contains(view, "1 faults A") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestDoneOnClosedChannel(t *testing.T) {
	events := make(chan crawler.Event)
	close(events)
	m := NewProgressModel("crawl", []string{"A"}, events).(*progressModel)
	if _, ok := m.listenForEvent()().(doneMsg); !ok {
		t.Fatalf("closed channel should produce doneMsg")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("samples.Calculator", 10); got != "samples..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
}

func TestQuitKeyAborts(t *testing.T) {
	m := NewProgressModel("crawl", []string{"A"}, make(chan crawler.Event))
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil || !Aborted(next) {
		t.Fatalf("ctrl+c should abort and quit")
	}
	if Aborted(NewProgressModel("crawl", nil, nil)) {
		t.Fatalf("fresh model reported aborted")
	}
}
