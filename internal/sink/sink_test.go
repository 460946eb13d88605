package sink_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zapcore"

	"codecrawl/internal/crawler"
	"codecrawl/internal/logx"
	"codecrawl/internal/samples"
	"codecrawl/internal/sink"
	"codecrawl/internal/trace"
)

func crawl(t *testing.T, s crawler.Sink) *crawler.Report {
	t.Helper()
	return crawler.New(crawler.WithSink(s)).CrawlCatalog(context.Background(), samples.Catalog())
}

func TestMetricsCountsCrawl(t *testing.T) {
	m := sink.NewMetrics()
	report := crawl(t, m)

	reg := m.Registry()
	n, err := testutil.GatherAndCount(reg, "codecrawl_faults_total")
	if err != nil {
		t.Fatal(err)
	}
	if n != report.Faults().Len() {
		t.Fatalf("fault series = %d, want one per code (%d)", n, report.Faults().Len())
	}
	expected := `
# HELP codecrawl_types_total Number of types the crawler started.
# TYPE codecrawl_types_total counter
codecrawl_types_total 5
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "codecrawl_types_total"); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "crawl.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `codecrawl_invocations_total{tuple="base"}`) {
		t.Fatalf("textfile missing invocations:\n%s", data)
	}
}

func TestMetricsInvocationSplit(t *testing.T) {
	m := sink.NewMetrics()
	crawler.CrawlOf[samples.Box[int]](context.Background(), crawler.New(crawler.WithSink(m)))

	expected := `
# HELP codecrawl_invocations_total Number of member invocations, by tuple kind.
# TYPE codecrawl_invocations_total counter
codecrawl_invocations_total{tuple="base"} 1
codecrawl_invocations_total{tuple="variant"} 1
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "codecrawl_invocations_total"); err != nil {
		t.Fatal(err)
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	log := logx.New(&buf, zapcore.InfoLevel, logx.FormatJSON, false)
	crawl(t, sink.NewLog(log))
	_ = log.Sync()

	out := buf.String()
	for _, want := range []string{`"msg":"crawl started"`, `"msg":"testing type"`, `"code":"CC2001"`, `"msg":"crawl finished"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s", want)
		}
	}
	if strings.Contains(out, `"msg":"invoking"`) {
		t.Fatalf("debug entries logged at info level")
	}
}

func TestTraceSink(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelCall, trace.FormatText)
	crawl(t, sink.NewTrace(tr))

	out := buf.String()
	for _, want := range []string{"→ run", "→ samples.Calculator", "→ Divide", "• Divide (0, 0)", "• fault (CC2001", "← run {faults=4"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace missing %q", want)
		}
	}
	if strings.Count(out, "→ ") != strings.Count(out, "← ") {
		t.Fatalf("unbalanced spans:\n%s", out)
	}
}

func TestJoinAndChannel(t *testing.T) {
	if _, ok := sink.Join(nil, nil).(sink.Nop); !ok {
		t.Fatalf("empty join should be Nop")
	}
	m := sink.NewMetrics()
	if sink.Join(nil, m) != crawler.Sink(m) {
		t.Fatalf("single join should return the sink itself")
	}

	ch := make(chan crawler.Event, 256)
	counted := 0
	s := sink.Join(sink.ChannelSink{Ch: ch}, crawler.SinkFunc(func(crawler.Event) { counted++ }))
	crawl(t, s)
	close(ch)

	received := 0
	var last crawler.Event
	for ev := range ch {
		received++
		last = ev
	}
	if received != counted || received == 0 {
		t.Fatalf("channel got %d events, func got %d", received, counted)
	}
	if last.Kind != crawler.EventRunEnd || last.Faults != 4 {
		t.Fatalf("last event = %+v", last)
	}
}

func TestChannelSinkStopsWhenDone(t *testing.T) {
	ch := make(chan crawler.Event)
	done := make(chan struct{})
	close(done)
	report := crawl(t, sink.ChannelSink{Ch: ch, Done: done})
	if report.Faults().Len() != 4 {
		t.Fatalf("crawl did not complete: %d faults", report.Faults().Len())
	}
}

func TestMultiIsolatesPanickingSink(t *testing.T) {
	ch := make(chan crawler.Event, 256)
	boom := crawler.SinkFunc(func(crawler.Event) { panic("sink exploded") })
	counted := 0
	s := sink.Join(boom, sink.ChannelSink{Ch: ch}, crawler.SinkFunc(func(crawler.Event) { counted++ }))
	report := crawl(t, s)
	close(ch)

	received := 0
	for range ch {
		received++
	}
	if received == 0 || received != counted {
		t.Fatalf("sinks after a panicking one must still see every event: channel=%d func=%d", received, counted)
	}
	if report.Faults().Len() != 4 {
		t.Fatalf("crawl did not complete: %d faults", report.Faults().Len())
	}
}
