package sink

import (
	"go.uber.org/zap"

	"codecrawl/internal/crawler"
)

// Log writes crawl events as structured log entries.
type Log struct {
	log *zap.Logger
}

// NewLog returns a sink writing to l.
func NewLog(l *zap.Logger) *Log {
	if l == nil {
		l = zap.NewNop()
	}
	return &Log{log: l.Named("crawler")}
}

func (s *Log) OnEvent(ev crawler.Event) {
	switch ev.Kind {
	case crawler.EventRunBegin:
		s.log.Info("crawl started", zap.String("run_id", ev.RunID), zap.Int("types", ev.Total))
	case crawler.EventTypeBegin:
		s.log.Info("testing type", zap.String("type", ev.Type), zap.Int("index", ev.Index+1), zap.Int("total", ev.Total))
	case crawler.EventMemberBegin:
		s.log.Debug("testing member", zap.String("type", ev.Type), zap.String("member", ev.Member))
	case crawler.EventInvocation:
		s.log.Debug("invoking",
			zap.String("type", ev.Type),
			zap.String("member", ev.Member),
			zap.Int("variant", ev.Variant),
			zap.String("args", ev.Args))
	case crawler.EventFault:
		if ev.Fault == nil {
			return
		}
		f := ev.Fault
		s.log.Warn("fault",
			zap.Stringer("code", f.Code),
			zap.Stringer("kind", f.Kind),
			zap.String("type", f.Type),
			zap.String("member", f.Member),
			zap.Int("variant", f.Variant),
			zap.String("message", f.Message))
	case crawler.EventTypeEnd:
		s.log.Debug("type done", zap.String("type", ev.Type), zap.Int("faults", ev.Faults), zap.Duration("elapsed", ev.Elapsed))
	case crawler.EventCancelled:
		s.log.Warn("crawl cancelled", zap.String("run_id", ev.RunID), zap.Int("faults", ev.Faults))
	case crawler.EventRunEnd:
		s.log.Info("crawl finished", zap.String("run_id", ev.RunID), zap.Int("faults", ev.Faults), zap.Duration("elapsed", ev.Elapsed))
	}
}
