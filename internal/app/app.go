// Package app wires configuration into adapters, sinks and the merge
// pipeline. Commands build everything they need through here.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/abelbrown/courtside/internal/config"
	"github.com/abelbrown/courtside/internal/coord"
	"github.com/abelbrown/courtside/internal/feeds"
	"github.com/abelbrown/courtside/internal/feeds/espn"
	"github.com/abelbrown/courtside/internal/feeds/markup"
	"github.com/abelbrown/courtside/internal/feeds/rss"
	"github.com/abelbrown/courtside/internal/fetch"
	"github.com/abelbrown/courtside/internal/logging"
	"github.com/abelbrown/courtside/internal/metrics"
	"github.com/abelbrown/courtside/internal/otel"
)

// Observability bundles the event sinks of one process.
type Observability struct {
	Sink    otel.Sink // fan-out of everything below
	Ring    *otel.RingBuffer
	Metrics *metrics.Metrics
	events  *otel.Logger // discards output when no events file is configured
	file    io.Closer    // nil when no events file is configured
}

// NewObservability builds the JSONL event log (if configured), ring buffer,
// metrics and log bridge behind one Tee.
func NewObservability(cfg *config.Config, logger *log.Logger) (*Observability, error) {
	o := &Observability{
		Ring:    otel.NewRingBuffer(otel.DefaultRingSize),
		Metrics: metrics.New(),
	}
	if path := os.ExpandEnv(cfg.Log.EventsFile); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open events file: %w", err)
		}
		o.file = f
		o.events = otel.NewLogger(f)
	} else {
		o.events = otel.NewNullLogger()
	}

	o.Sink = otel.Tee(o.Ring, o.Metrics, logging.Sink(logger), o.events)
	return o, nil
}

// SessionID identifies this process in the events file.
func (o *Observability) SessionID() string {
	return o.events.SessionID()
}

// Close flushes the event log. It returns the number of dropped events.
func (o *Observability) Close() uint64 {
	dropped := o.events.Close()
	if o.file != nil {
		_ = o.file.Close()
	}
	return dropped
}

// Fetchers returns the page and API fetchers for cfg. They share one rate
// limiter.
func Fetchers(cfg *config.Config) (page, api *fetch.Fetcher) {
	page = fetch.NewFetcher(fetch.Options{
		Timeout:       cfg.Fetch.PageTimeout,
		UserAgent:     cfg.Fetch.UserAgent,
		RatePerSecond: cfg.Fetch.RatePerSecond,
		Burst:         2,
	})
	return page, page.WithTimeout(cfg.Fetch.APITimeout)
}

// Sources builds the enabled adapters in configured order.
func Sources(cfg *config.Config, sink otel.Sink) ([]feeds.Source, error) {
	page, api := Fetchers(cfg)

	var sources []feeds.Source
	for _, a := range cfg.EnabledAdapters() {
		src, err := buildSource(a, page, api, sink)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func buildSource(a config.AdapterConfig, page, api *fetch.Fetcher, sink otel.Sink) (feeds.Source, error) {
	switch a.Kind {
	case config.KindNBA:
		return markup.New(named(markup.NBAOfficial(), a.Name).WithURL(a.URL), page, sink), nil
	case config.KindESPN:
		return markup.New(named(markup.ESPN(), a.Name).WithURL(a.URL), page, sink), nil
	case config.KindESPNNews:
		return espn.NewNews(api, a.URL), nil
	case config.KindScores:
		return espn.Scores(api, sink, espn.WithBaseURL(a.URL), espn.WithDays(a.Days)), nil
	case config.KindSchedule:
		return espn.Schedule(api, sink, espn.WithBaseURL(a.URL), espn.WithDays(a.Days)), nil
	case config.KindRSS:
		return rss.New(a.Name, a.URL, 0, page), nil
	default:
		return nil, fmt.Errorf("unknown adapter kind %q", a.Kind)
	}
}

func named(p markup.Profile, name string) markup.Profile {
	if name != "" {
		p.Name = name
	}
	return p
}

// Pipeline builds the merge pipeline for cfg.
func Pipeline(cfg *config.Config, sink otel.Sink) (*coord.Pipeline, error) {
	sources, err := Sources(cfg, sink)
	if err != nil {
		return nil, err
	}
	opts := coord.Options{
		MaxItems:          cfg.Pipeline.MaxItems,
		AdapterTimeout:    cfg.Pipeline.AdapterTimeout,
		PerSourceFallback: cfg.Fallback.PerSource,
		Sink:              sink,
	}
	if cfg.Pipeline.FilterPromos {
		opts.Filter = feeds.DefaultFilter()
	}
	return coord.New(sources, opts), nil
}
