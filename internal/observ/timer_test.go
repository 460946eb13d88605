package observ

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	cur := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	done := tm.Track("load")
	done("3 types")
	idx := tm.Begin("crawl")
	tm.End(idx, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d", len(r.Phases))
	}
	if r.Phases[0].DurationMS != 2 || r.Phases[0].Note != "3 types" {
		t.Fatalf("first phase = %+v", r.Phases[0])
	}
	if r.TotalMS != 4 {
		t.Fatalf("total = %v, want 4", r.TotalMS)
	}

	var buf bytes.Buffer
	if err := tm.WriteSummary(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "load                  2.00 ms  // 3 types") || !strings.Contains(out, "total                 4.00 ms") {
		t.Fatalf("summary:\n%s", out)
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("empty report = %+v", r)
	}
}
