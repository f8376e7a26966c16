package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abelbrown/courtside/internal/feeds"
	"github.com/abelbrown/courtside/internal/otel"
)

// Status-bar messages.
const (
	MsgRefreshed     = "News refreshed successfully!"
	MsgRefreshFailed = "Using cached data. Please try again later."
)

// ErrEmpty is reported when the endpoint answers with no items.
var ErrEmpty = errors.New("client: endpoint returned no items")

// Result is what the presentation layer renders after a load.
type Result struct {
	Items    []feeds.Item
	Sections Sections
	Updated  time.Time // endpoint timestamp, or load time for local data
	Fallback bool      // true when Items is the local static bundle
	Message  string    // informational status line
	Warning  string    // non-blocking warning, empty when none
	Err      error     // cause of the fallback, nil on success
}

// Fetcher is the endpoint surface the Loader needs. *Client implements it.
type Fetcher interface {
	News(ctx context.Context) (*Envelope, error)
	Refresh(ctx context.Context) (*Envelope, error)
}

// Loader turns endpoint responses into renderable results. It never fails:
// every error path degrades to the static bundle.
type Loader struct {
	api  Fetcher
	sink otel.Sink
	now  func() time.Time
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithSink routes load events to s.
func WithSink(s otel.Sink) LoaderOption {
	return func(l *Loader) { l.sink = otel.OrDiscard(s) }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) { l.now = now }
}

// NewLoader creates a Loader over api.
func NewLoader(api Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{api: api, sink: otel.Discard, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches the current list. Transport failures, non-200 responses,
// success=false and empty data all yield the static bundle with a warning.
func (l *Loader) Load(ctx context.Context) Result {
	start := l.now()
	env, err := l.api.News(ctx)
	if err == nil && len(env.Data) == 0 {
		err = ErrEmpty
	}
	if err != nil {
		return l.static(err, "")
	}

	r := Result{
		Items:    env.Data,
		Sections: Partition(env.Data),
		Updated:  l.parseTimestamp(env.Timestamp),
		Message:  fmt.Sprintf("%d articles loaded", len(env.Data)),
		Warning:  env.Note,
	}
	l.sink.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindClientLoad,
		Comp:  "client",
		Count: len(r.Items),
		Dur:   l.now().Sub(start),
	})
	return r
}

// Refresh asks the endpoint to rebuild, then reloads through Load. A failed
// refresh yields the static bundle.
func (l *Loader) Refresh(ctx context.Context) Result {
	if _, err := l.api.Refresh(ctx); err != nil {
		return l.static(err, MsgRefreshFailed)
	}
	r := l.Load(ctx)
	if !r.Fallback {
		r.Message = MsgRefreshed
	}
	return r
}

func (l *Loader) static(cause error, warning string) Result {
	now := l.now()
	items := Static(now)
	if warning == "" {
		warning = fmt.Sprintf("API connection failed, showing fallback data (%d items)", len(items))
	}
	l.sink.Emit(otel.Event{
		Level: otel.LevelWarn,
		Kind:  otel.KindClientFallback,
		Comp:  "client",
		Count: len(items),
		Err:   cause.Error(),
	})
	return Result{
		Items:    items,
		Sections: Partition(items),
		Updated:  now,
		Fallback: true,
		Message:  fmt.Sprintf("%d articles loaded", len(items)),
		Warning:  warning,
		Err:      cause,
	}
}

func (l *Loader) parseTimestamp(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return l.now()
}
