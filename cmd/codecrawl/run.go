package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"codecrawl/internal/crawler"
	"codecrawl/internal/fault"
	"codecrawl/internal/observ"
	"codecrawl/internal/report"
	"codecrawl/internal/sink"
	"codecrawl/internal/trace"
)

type runFlags struct {
	catalog      catalogFlags
	format       string
	maxFaults    int
	stacks       bool
	passing      bool
	sorted       bool
	live         bool
	errorResults bool
	failOnFaults bool
	timeout      time.Duration
	metricsOut   string
	ui           string
}

var runOpts runFlags

var runCmd = &cobra.Command{
	Use:   "run [--plugin path.so | --builtin name]",
	Short: "Crawl a catalog and report every fault",
	Long: `Crawl instantiates each type of the catalog once and calls every
member with a base argument tuple plus one tuple per pointer parameter.
Panics, non-nil error results and results that do not match their declared
type are reported; the run always covers the whole catalog unless it is
interrupted or times out, in which case the partial report is printed.`,
	Args: cobra.NoArgs,
	RunE: runCrawl,
}

func init() {
	addCatalogFlags(runCmd, &runOpts.catalog)
	f := runCmd.Flags()
	f.StringVar(&runOpts.format, "format", "", "output format (pretty|short|json|msgpack), overrides [output].format")
	f.IntVar(&runOpts.maxFaults, "max-faults", 0, "maximum faults to render (0 = unlimited), overrides [output].max_faults")
	f.BoolVar(&runOpts.stacks, "stacks", false, "include panic stacks in the output")
	f.BoolVar(&runOpts.passing, "passing", false, "list members without faults too")
	f.BoolVar(&runOpts.sorted, "sort", false, "short format: order faults by type and member instead of crawl order")
	f.BoolVar(&runOpts.live, "live", false, "print each fault to stderr as it is found (ignored with the progress UI)")
	f.BoolVar(&runOpts.errorResults, "error-results", true, "treat non-nil trailing error results as faults")
	f.BoolVar(&runOpts.failOnFaults, "fail-on-faults", true, "exit with status 1 when faults are found")
	f.DurationVar(&runOpts.timeout, "timeout", 0, "stop crawling after this long and report partial results (0 = no limit)")
	f.StringVar(&runOpts.metricsOut, "metrics-out", "", "write prometheus metrics in text format to this file")
	f.StringVar(&runOpts.ui, "ui", "auto", "progress UI (auto|on|off)")
}

func (o *runFlags) apply(cmd *cobra.Command, s *settings) {
	o.catalog.apply(cmd, &s.cfg)
	flags := cmd.Flags()
	if flags.Changed("format") {
		s.cfg.Output.Format = o.format
	}
	if flags.Changed("max-faults") {
		s.cfg.Output.MaxFaults = o.maxFaults
	}
	if flags.Changed("stacks") {
		s.cfg.Output.Stacks = o.stacks
	}
	if flags.Changed("passing") {
		s.cfg.Output.Passing = o.passing
	}
	if flags.Changed("error-results") {
		s.cfg.Crawl.ErrorResults = o.errorResults
	}
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	timer := observ.NewTimer()

	doneConfig := timer.Track("config")
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.logger.Sync() }()
	runOpts.apply(cmd, s)
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	format, err := report.ParseFormat(s.cfg.Output.Format)
	if err != nil {
		return err
	}
	mode, err := readUIMode(runOpts.ui)
	if err != nil {
		return err
	}
	doneConfig(s.cfg.Path)

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()
	stopTracing, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer stopTracing()

	doneLoad := timer.Track("load")
	cat, label, err := openCatalog(runOpts.catalog.builtin, s.cfg)
	if err != nil {
		return err
	}
	doneLoad(label)

	ctx := cmd.Context()
	if runOpts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runOpts.timeout)
		defer cancel()
	}

	var metrics *sink.Metrics
	if runOpts.metricsOut != "" {
		metrics = sink.NewMetrics()
	}
	base := sink.Join(
		sink.NewLog(s.logger),
		sink.NewTrace(trace.FromContext(cmd.Context())),
		metricsSink(metrics),
	)
	machineOutput := format == report.FormatJSON || format == report.FormatMsgPack
	useTUI := !s.quiet && shouldUseTUI(mode, machineOutput)
	var reporter fault.Reporter
	if runOpts.live && !useTUI {
		stderr := cmd.ErrOrStderr()
		reporter = fault.FuncReporter(func(f fault.Fault) {
			fmt.Fprintln(stderr, report.ShortLine(f))
		})
	}
	newCrawler := func(sk crawler.Sink) *crawler.Crawler {
		return crawler.New(
			crawler.WithSink(sk),
			crawler.WithReporter(reporter),
			crawler.WithErrorResults(s.cfg.Crawl.ErrorResults),
		)
	}

	doneCrawl := timer.Track("crawl")
	var rep *crawler.Report
	if useTUI {
		rep, err = crawlWithUI(ctx, newCrawler, base, cat, label)
		if err != nil {
			return fmt.Errorf("progress UI: %w", err)
		}
	} else {
		rep = newCrawler(base).CrawlCatalog(ctx, cat)
	}
	doneCrawl(fmt.Sprintf("%d invocations", rep.Invocations()))

	doneRender := timer.Track("render")
	opts := report.Options{
		Color:   s.color && !machineOutput,
		Max:     s.cfg.Output.MaxFaults,
		Stacks:  s.cfg.Output.Stacks,
		Passing: s.cfg.Output.Passing && !s.quiet,
		Sorted:  runOpts.sorted,
	}
	if err := report.Render(cmd.OutOrStdout(), format, rep, opts); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	doneRender(string(format))

	if metrics != nil {
		if err := metrics.WriteTextfile(runOpts.metricsOut); err != nil {
			return err
		}
	}
	if s.timings {
		if err := timer.WriteSummary(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	if rep.Faults().HasFaults() {
		dumpTraceRing(cmd)
		if runOpts.failOnFaults {
			return errFaultsFound
		}
	}
	return nil
}

// metricsSink keeps a nil *Metrics from becoming a non-nil interface.
func metricsSink(m *sink.Metrics) crawler.Sink {
	if m == nil {
		return nil
	}
	return m
}
