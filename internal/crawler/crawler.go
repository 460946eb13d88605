// Package crawler drives a smoke-test run over a catalog.
//
// For every type the crawler creates one instance, then for every member
// it invokes the base argument tuple followed by one tuple per nullable
// parameter, validating each outcome. Every failure becomes a fault.Fault
// scoped to its type, member and variant; nothing but cancellation stops
// the run early.
//
// Cancellation is cooperative: the context is consulted before each type
// is constructed and before each member is processed. A cancelled crawl
// returns everything gathered so far with Report.Cancelled set.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"codecrawl/internal/catalog"
	"codecrawl/internal/contract"
	"codecrawl/internal/fault"
	"codecrawl/internal/invoke"
	"codecrawl/internal/synth"
)

// Crawler composes synthesis, invocation and validation.
type Crawler struct {
	synth    *synth.Synthesizer
	invoker  *invoke.Invoker
	sink     Sink
	reporter fault.Reporter
	newID    func() string
	now      func() time.Time
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithPolicy sets the default-value policy for argument synthesis.
func WithPolicy(p *synth.Policy) Option {
	return func(c *Crawler) { c.synth = synth.New(p) }
}

// WithSink routes progress events to s.
func WithSink(s Sink) Option {
	return func(c *Crawler) {
		if s != nil {
			c.sink = s
		}
	}
}

// WithReporter receives every fault as soon as it is recorded.
func WithReporter(r fault.Reporter) Option {
	return func(c *Crawler) { c.reporter = r }
}

// WithErrorResults controls whether non-nil trailing error results are faults.
func WithErrorResults(on bool) Option {
	return func(c *Crawler) { c.invoker = invoke.New(invoke.WithErrorResults(on)) }
}

// WithRunID fixes the run identifier generator (tests).
func WithRunID(fn func() string) Option {
	return func(c *Crawler) { c.newID = fn }
}

// New returns a Crawler.
func New(opts ...Option) *Crawler {
	c := &Crawler{
		synth:   synth.New(nil),
		invoker: invoke.New(),
		sink:    nopSink{},
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CrawlCatalog exercises every type of cat in catalog order.
func (c *Crawler) CrawlCatalog(ctx context.Context, cat catalog.Catalog) *Report {
	report := &Report{RunID: c.newID(), Started: c.now()}
	types := cat.Types()
	report.Types = make([]TypeReport, 0, len(types))

	c.emit(Event{Kind: EventRunBegin, RunID: report.RunID, Total: len(types)})
	for i, t := range types {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}
		tr, cancelled := c.crawlType(ctx, report.RunID, cat, t, i, len(types))
		report.Types = append(report.Types, tr)
		if cancelled {
			report.Cancelled = true
			break
		}
	}
	report.Elapsed = c.now().Sub(report.Started)

	if report.Cancelled {
		c.emit(Event{Kind: EventCancelled, RunID: report.RunID, Faults: report.Faults().Len()})
	}
	c.emit(Event{Kind: EventRunEnd, RunID: report.RunID, Faults: report.Faults().Len(), Elapsed: report.Elapsed})
	return report
}

// CrawlType exercises a single type of cat. The boolean reports cancellation.
func (c *Crawler) CrawlType(ctx context.Context, cat catalog.Catalog, t catalog.Type) (TypeReport, bool) {
	return c.crawlType(ctx, "", cat, t, 0, 1)
}

// CrawlOf exercises T through a one-type registry.
func CrawlOf[T any](ctx context.Context, c *Crawler) (TypeReport, bool) {
	reg := catalog.Add[T](catalog.NewRegistry())
	return c.CrawlType(ctx, reg, catalog.TypeOf[T]())
}

// CrawlInstance exercises members on an existing instance. The boolean
// reports cancellation; members processed before it are returned.
func (c *Crawler) CrawlInstance(ctx context.Context, typeName string, instance reflect.Value, members []catalog.Member) ([]MemberReport, bool) {
	reports := make([]MemberReport, 0, len(members))
	for _, m := range members {
		if ctx.Err() != nil {
			return reports, true
		}
		reports = append(reports, c.crawlMember("", typeName, instance, m))
	}
	return reports, false
}

func (c *Crawler) crawlType(ctx context.Context, runID string, cat catalog.Catalog, t catalog.Type, idx, total int) (TypeReport, bool) {
	start := c.now()
	tr := TypeReport{Name: t.Name}
	c.emit(Event{Kind: EventTypeBegin, RunID: runID, Type: t.Name, Index: idx, Total: total})

	instance, err := c.construct(cat, t)
	if err != nil {
		f := fault.Construction(constructionCode(err), t.Name, err)
		tr.Construction = &f
		c.record(f)
		c.emit(Event{Kind: EventFault, RunID: runID, Type: t.Name, Variant: fault.BaseVariant, Fault: &f})
		c.emit(Event{Kind: EventTypeEnd, RunID: runID, Type: t.Name, Faults: 1, Index: idx, Total: total, Elapsed: c.now().Sub(start)})
		return tr, false
	}
	c.emit(Event{Kind: EventInstanceCreated, RunID: runID, Type: t.Name, Index: idx, Total: total})

	members := cat.Members(t)
	tr.Members = make([]MemberReport, 0, len(members))
	cancelled := false
	for _, m := range members {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		tr.Members = append(tr.Members, c.crawlMember(runID, t.Name, instance, m))
	}

	c.emit(Event{Kind: EventTypeEnd, RunID: runID, Type: t.Name, Faults: len(tr.Faults()), Index: idx, Total: total, Elapsed: c.now().Sub(start)})
	return tr, cancelled
}

func (c *Crawler) crawlMember(runID, typeName string, instance reflect.Value, m catalog.Member) MemberReport {
	start := c.now()
	mr := MemberReport{Name: m.Name, Signature: m.Signature()}
	c.emit(Event{Kind: EventMemberBegin, RunID: runID, Type: typeName, Member: m.Name})

	base := c.synth.Base(m)
	c.attempt(&mr, runID, typeName, instance, m, base)
	for _, variant := range c.synth.NullableVariants(m, base) {
		c.attempt(&mr, runID, typeName, instance, m, variant)
	}

	c.emit(Event{Kind: EventMemberEnd, RunID: runID, Type: typeName, Member: m.Name, Faults: len(mr.Faults), Elapsed: c.now().Sub(start)})
	return mr
}

// attempt runs one invoke+validate cycle; its fault never escapes.
func (c *Crawler) attempt(mr *MemberReport, runID, typeName string, instance reflect.Value, m catalog.Member, tuple synth.Tuple) {
	mr.Invocations++
	c.emit(Event{Kind: EventInvocation, RunID: runID, Type: typeName, Member: m.Name, Variant: tuple.Forced, Args: tuple.String()})

	outcome := c.invoker.Invoke(instance, m, tuple)
	err := contract.Validate(outcome, m.Results)
	if err == nil {
		return
	}
	f := toFault(typeName, m.Name, tuple.Forced, outcome, err).WithArgs(tuple.String())
	mr.Faults = append(mr.Faults, f)
	c.record(f)
	c.emit(Event{Kind: EventFault, RunID: runID, Type: typeName, Member: m.Name, Variant: tuple.Forced, Fault: &f})
}

func toFault(typeName, member string, variant int, outcome invoke.Outcome, err error) fault.Fault {
	if outcome.Faulted() {
		return fault.New(outcome.Code, typeName, member, variant, outcome.Cause).WithStack(outcome.Stack)
	}
	var v *contract.Violation
	if errors.As(err, &v) {
		return fault.Contract(v.Code(), typeName, member, variant, v.Detail())
	}
	return fault.Contract(fault.ContractResultInvalid, typeName, member, variant, err.Error())
}

// construct guards against catalogs that panic or return no instance.
func (c *Crawler) construct(cat catalog.Catalog, t catalog.Type) (v reflect.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v = reflect.Value{}
			err = fmt.Errorf("%s: %w: %v", t.Name, catalog.ErrConstructorPanicked, rec)
		}
	}()
	v, err = cat.Construct(t)
	if err == nil && !v.IsValid() {
		err = fmt.Errorf("%s: %w", t.Name, catalog.ErrNilInstance)
	}
	return v, err
}

func constructionCode(err error) fault.Code {
	switch {
	case errors.Is(err, catalog.ErrNotConstructible):
		return fault.ConstructionAbstract
	case errors.Is(err, catalog.ErrConstructorPanicked):
		return fault.ConstructionPanicked
	case errors.Is(err, catalog.ErrNilInstance):
		return fault.ConstructionNilResult
	}
	return fault.ConstructionFailed
}

// emit forwards an event; a misbehaving sink must not end the run.
func (c *Crawler) emit(ev Event) {
	defer func() { _ = recover() }()
	c.sink.OnEvent(ev)
}

func (c *Crawler) record(f fault.Fault) {
	if c.reporter == nil {
		return
	}
	defer func() { _ = recover() }()
	c.reporter.Report(f)
}
