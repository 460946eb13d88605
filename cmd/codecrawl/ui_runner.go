package main

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"codecrawl/internal/catalog"
	"codecrawl/internal/crawler"
	"codecrawl/internal/sink"
	"codecrawl/internal/ui"
)

// crawlWithUI runs the crawl and the progress UI side by side. Quitting
// the UI cancels the crawl, which then returns its partial report.
func crawlWithUI(ctx context.Context, newCrawler func(crawler.Sink) *crawler.Crawler, base crawler.Sink, cat catalog.Catalog, title string) (*crawler.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	types := cat.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name
	}

	events := make(chan crawler.Event, 256)
	uiDone := make(chan struct{})
	var report *crawler.Report

	var g errgroup.Group
	g.Go(func() error {
		defer close(events)
		c := newCrawler(sink.Join(base, sink.ChannelSink{Ch: events, Done: uiDone}))
		report = c.CrawlCatalog(ctx, cat)
		return nil
	})
	g.Go(func() error {
		defer close(uiDone)
		model := ui.NewProgressModel(title, names, events)
		final, err := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx)).Run()
		if err != nil || ui.Aborted(final) {
			cancel()
		}
		if errors.Is(err, tea.ErrProgramKilled) {
			// the crawl context ended first; the report says so
			return nil
		}
		return err
	})
	err := g.Wait()
	return report, err
}
