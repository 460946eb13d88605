// Package sink provides crawler.Sink implementations: spans for the
// tracer, structured log lines, prometheus counters and a channel feeding
// the progress UI. Sinks only observe; the crawl report never depends on
// them.
package sink
