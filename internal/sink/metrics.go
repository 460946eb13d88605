package sink

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"codecrawl/internal/crawler"
)

const namespace = "codecrawl"

// Metrics counts crawl activity in its own prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	types          prometheus.Counter
	members        prometheus.Counter
	invocations    *prometheus.CounterVec
	faults         *prometheus.CounterVec
	memberDuration prometheus.Histogram
	cancelled      prometheus.Gauge
}

// NewMetrics creates the collectors and registers them.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		types: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "types_total",
			Help:      "Number of types the crawler started.",
		}),
		members: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "members_total",
			Help:      "Number of members the crawler exercised.",
		}),
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Number of member invocations, by tuple kind.",
		}, []string{"tuple"}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "faults_total",
			Help:      "Number of recorded faults, by kind and code.",
		}, []string{"kind", "code"}),
		memberDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "member_duration_seconds",
			Help:      "Time spent on all invocations of one member.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		cancelled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_cancelled",
			Help:      "1 when the last run stopped on cancellation.",
		}),
	}
	m.registry.MustRegister(m.types, m.members, m.invocations, m.faults, m.memberDuration, m.cancelled)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) OnEvent(ev crawler.Event) {
	switch ev.Kind {
	case crawler.EventRunBegin:
		m.cancelled.Set(0)
	case crawler.EventTypeBegin:
		m.types.Inc()
	case crawler.EventMemberBegin:
		m.members.Inc()
	case crawler.EventInvocation:
		tuple := "variant"
		if ev.Variant < 0 {
			tuple = "base"
		}
		m.invocations.WithLabelValues(tuple).Inc()
	case crawler.EventFault:
		if ev.Fault != nil {
			m.faults.WithLabelValues(ev.Fault.Kind.String(), ev.Fault.Code.String()).Inc()
		}
	case crawler.EventMemberEnd:
		m.memberDuration.Observe(ev.Elapsed.Seconds())
	case crawler.EventCancelled:
		m.cancelled.Set(1)
	}
}

// WriteTextfile writes the current values in the text exposition format,
// suitable for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
