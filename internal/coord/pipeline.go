package coord

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/abelbrown/courtside/internal/fallback"
	"github.com/abelbrown/courtside/internal/feeds"
	"github.com/abelbrown/courtside/internal/otel"
)

// Defaults for Options.
const (
	DefaultMaxItems       = 25
	DefaultAdapterTimeout = 45 * time.Second
)

// Options configures a Pipeline.
type Options struct {
	MaxItems       int           // cap on the merged list; zero means DefaultMaxItems
	AdapterTimeout time.Duration // per adapter run; zero means DefaultAdapterTimeout

	// PerSourceFallback substitutes an adapter's fallback category when it
	// fails or yields nothing.
	PerSourceFallback bool

	Filter *feeds.Filter // nil disables promo filtering
	Sink   otel.Sink     // nil discards events
	Now    func() time.Time
}

// SourceError records one adapter failure in a run.
type SourceError struct {
	Source string
	Err    error
}

// Report describes one pipeline run.
type Report struct {
	Items    []feeds.Item
	Fallback bool // the fallback bundle replaced an empty aggregate
	Failures []SourceError
	Dur      time.Duration
}

// Pipeline fans out over its sources and merges the results.
// Sources are IMMUTABLE after construction.
type Pipeline struct {
	sources []feeds.Source
	opts    Options
	sink    otel.Sink
	now     func() time.Time
}

// New creates a Pipeline over sources, merged in the given order.
func New(sources []feeds.Source, opts Options) *Pipeline {
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxItems
	}
	if opts.AdapterTimeout <= 0 {
		opts.AdapterTimeout = DefaultAdapterTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		sources: slices.Clone(sources),
		opts:    opts,
		sink:    otel.OrDiscard(opts.Sink),
		now:     now,
	}
}

// Sources returns the source names in merge order.
func (p *Pipeline) Sources() []string {
	names := make([]string, len(p.sources))
	for i, s := range p.sources {
		names[i] = s.Name()
	}
	return names
}

// Run returns the merged items. It never fails and never returns an empty
// list.
func (p *Pipeline) Run(ctx context.Context) []feeds.Item {
	return p.RunReport(ctx).Items
}

// sourceOutput is one adapter's contribution to the merge.
type sourceOutput struct {
	items       []feeds.Item
	substituted bool // fallback items, merged without dedup
}

// RunReport is Run with run details.
func (p *Pipeline) RunReport(ctx context.Context) (rep Report) {
	start := p.now()
	runID := otel.NewSessionID()[:8]

	defer func() {
		if r := recover(); r != nil {
			p.sink.Emit(otel.Event{
				Level: otel.LevelError,
				Kind:  otel.KindPipelinePanic,
				Comp:  "coord",
				RunID: runID,
				Err:   fmt.Sprint(r),
			})
			rep = Report{Items: fallback.Bundle(p.now()), Fallback: true}
		}
		rep.Dur = p.now().Sub(start)
	}()

	tasks := make([]Task[[]feeds.Item], len(p.sources))
	for i, src := range p.sources {
		tasks[i] = p.task(src, runID)
	}
	results := Settle(ctx, tasks)

	outputs := make([]sourceOutput, len(results))
	for i, res := range results {
		src := p.sources[i]
		p.report(src, res, runID)
		if res.Err != nil {
			rep.Failures = append(rep.Failures, SourceError{Source: src.Name(), Err: res.Err})
		}
		outputs[i] = p.output(src, res, runID)
	}

	merged := merge(outputs)
	if len(merged) == 0 {
		merged = fallback.Bundle(p.now())
		rep.Fallback = true
		p.sink.Emit(otel.Event{
			Level: otel.LevelWarn,
			Kind:  otel.KindPipelineFallback,
			Comp:  "coord",
			RunID: runID,
			Count: len(merged),
			Msg:   "no live items, serving fallback bundle",
		})
	}

	slices.SortStableFunc(merged, func(a, b feeds.Item) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if len(merged) > p.opts.MaxItems {
		merged = merged[:p.opts.MaxItems]
	}
	rep.Items = merged

	p.sink.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindPipelineMerge,
		Comp:  "coord",
		RunID: runID,
		Count: len(merged),
		Dur:   p.now().Sub(start),
		Extra: map[string]any{
			"adapters": len(p.sources),
			"failed":   len(rep.Failures),
			"fallback": rep.Fallback,
		},
	})
	return rep
}

// task wraps one source with its timeout, promo filter and start event.
func (p *Pipeline) task(src feeds.Source, runID string) Task[[]feeds.Item] {
	return func(ctx context.Context) ([]feeds.Item, error) {
		p.sink.Emit(otel.Event{
			Level:  otel.LevelDebug,
			Kind:   otel.KindAdapterStart,
			Comp:   "coord",
			RunID:  runID,
			Source: src.Name(),
		})

		ctx, cancel := context.WithTimeout(ctx, p.opts.AdapterTimeout)
		defer cancel()

		items, err := src.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		if p.opts.Filter != nil {
			items = p.opts.Filter.FilterItems(items)
		}
		return slices.DeleteFunc(slices.Clone(items), func(i feeds.Item) bool { return !i.Valid() }), nil
	}
}

func (p *Pipeline) report(src feeds.Source, res Result[[]feeds.Item], runID string) {
	if res.Err != nil {
		p.sink.Emit(otel.Event{
			Level:  otel.LevelError,
			Kind:   otel.KindAdapterError,
			Comp:   "coord",
			RunID:  runID,
			Source: src.Name(),
			Dur:    res.Dur,
			Err:    res.Err.Error(),
		})
		return
	}
	p.sink.Emit(otel.Event{
		Level:  otel.LevelInfo,
		Kind:   otel.KindAdapterComplete,
		Comp:   "coord",
		RunID:  runID,
		Source: src.Name(),
		Dur:    res.Dur,
		Count:  len(res.Value),
	})
}

func (p *Pipeline) output(src feeds.Source, res Result[[]feeds.Item], runID string) sourceOutput {
	if res.Err == nil && len(res.Value) > 0 {
		return sourceOutput{items: res.Value}
	}
	if !p.opts.PerSourceFallback {
		return sourceOutput{}
	}
	items := fallback.For(src.Type(), p.now())
	p.sink.Emit(otel.Event{
		Level:  otel.LevelWarn,
		Kind:   otel.KindAdapterFallback,
		Comp:   "coord",
		RunID:  runID,
		Source: src.Name(),
		Count:  len(items),
	})
	return sourceOutput{items: items, substituted: true}
}

// merge concatenates outputs in order, dropping live items that duplicate an
// earlier live item.
func merge(outputs []sourceOutput) []feeds.Item {
	seen := feeds.NewCollection(0)
	var merged []feeds.Item
	for _, out := range outputs {
		if out.substituted {
			merged = append(merged, out.items...)
			continue
		}
		for _, item := range out.items {
			if seen.Add(item) {
				merged = append(merged, item)
			}
		}
	}
	return merged
}
