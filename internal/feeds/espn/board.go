// Package espn adapts the ESPN site API: scoreboard-backed score and
// schedule adapters, plus the news-article feed.
package espn

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"
	_ "time/tzdata" // America/New_York on hosts without zoneinfo

	"github.com/abelbrown/courtside/internal/datefmt"
	"github.com/abelbrown/courtside/internal/feeds"
	"github.com/abelbrown/courtside/internal/fetch"
	"github.com/abelbrown/courtside/internal/otel"
)

// Upstream defaults.
const (
	ScoreboardURL = "https://site.api.espn.com/apis/site/v2/sports/basketball/nba/scoreboard"
	GameURLPrefix = "https://www.espn.com/nba/game/_/gameId/"

	ScoresFallbackLink   = "https://www.nba.com/games"
	ScheduleFallbackLink = "https://www.nba.com/schedule"

	DefaultDays = 3
	perDateCap  = 5
	scoresCap   = 8
	scheduleCap = 6
)

// dateKeyLayout is the scoreboard's dates= parameter format.
const dateKeyLayout = "20060102"

var eastern = mustLoad("America/New_York")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("espn: load %s: %v", name, err))
	}
	return loc
}

// Board fetches one scoreboard per date in a window and maps the events that
// pass its filter to items.
type Board struct {
	name         string
	typ          feeds.Type
	baseURL      string
	fallbackLink string
	days         int
	cap          int
	fetcher      *fetch.Fetcher
	sink         otel.Sink
	now          func() time.Time

	window func(now time.Time, days int) []time.Time
	keep   func(e event) bool
	title  func(home, away competitor, e event) string
}

// Option configures a Board.
type Option func(*Board)

// WithBaseURL points the board at a different scoreboard endpoint.
func WithBaseURL(u string) Option {
	return func(b *Board) {
		if u != "" {
			b.baseURL = u
		}
	}
}

// WithDays sets the window length.
func WithDays(n int) Option {
	return func(b *Board) {
		if n > 0 {
			b.days = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// Scores returns the adapter for completed games over the past days,
// excluding today, most recent first.
func Scores(f *fetch.Fetcher, sink otel.Sink, opts ...Option) *Board {
	b := &Board{
		name:         "NBA Scores",
		typ:          feeds.TypeScore,
		fallbackLink: ScoresFallbackLink,
		cap:          scoresCap,
		window:       pastDays,
		keep:         func(e event) bool { return e.Status.Type.Completed },
		title:        scoreTitle,
	}
	return b.init(f, sink, opts)
}

// Schedule returns the adapter for games not yet completed from today on.
func Schedule(f *fetch.Fetcher, sink otel.Sink, opts ...Option) *Board {
	b := &Board{
		name:         "NBA Schedule",
		typ:          feeds.TypeSchedule,
		fallbackLink: ScheduleFallbackLink,
		cap:          scheduleCap,
		window:       nextDays,
		keep:         func(e event) bool { return !e.Status.Type.Completed },
		title:        scheduleTitle,
	}
	return b.init(f, sink, opts)
}

func (b *Board) init(f *fetch.Fetcher, sink otel.Sink, opts []Option) *Board {
	b.baseURL = ScoreboardURL
	b.days = DefaultDays
	b.fetcher = f
	b.sink = otel.OrDiscard(sink)
	b.now = time.Now
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Board) Name() string {
	return b.name
}

func (b *Board) Type() feeds.Type {
	return b.typ
}

// Fetch requests each date in the window sequentially. A failing date is
// reported and skipped. Fetch errors when every date failed or when ctx ends
// before the window is done.
func (b *Board) Fetch(ctx context.Context) ([]feeds.Item, error) {
	now := b.now()
	dates := b.window(now, b.days)
	col := feeds.NewCollection(b.cap)
	ts := feeds.CaptureTime(now)

	var errs []error
	for _, d := range dates {
		if col.Full() {
			break
		}
		key := d.Format(dateKeyLayout)

		var sb scoreboard
		if err := b.fetcher.JSON(ctx, b.dateURL(key), &sb); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			b.sink.Emit(otel.Event{
				Level:  otel.LevelWarn,
				Kind:   otel.KindAdapterDateError,
				Comp:   "espn",
				Source: b.name,
				Err:    err.Error(),
				Extra:  map[string]any{"date": key},
			})
			if ctx.Err() != nil {
				break
			}
			continue
		}

		kept := 0
		for _, e := range sb.Events {
			if kept == perDateCap {
				break
			}
			if !b.keep(e) {
				continue
			}
			kept++

			home, away, ok := e.sides()
			if !ok {
				continue
			}
			col.Add(feeds.Item{
				Title:     feeds.NormalizeTitle(b.title(home, away, e)),
				Link:      b.eventLink(e),
				Date:      datefmt.RelativeString(e.Date, now),
				Source:    b.name,
				Timestamp: ts,
				Type:      b.typ,
			})
		}
	}

	if err := ctx.Err(); err != nil && !col.Full() {
		return nil, fmt.Errorf("%s: %w", b.name, err)
	}
	if len(errs) > 0 && len(errs) == len(dates) {
		return nil, fmt.Errorf("%s: all %d dates failed: %w", b.name, len(dates), errors.Join(errs...))
	}
	return col.Items(), nil
}

func (b *Board) dateURL(key string) string {
	u, err := url.Parse(b.baseURL)
	if err != nil {
		return b.baseURL + "?dates=" + key
	}
	q := u.Query()
	q.Set("dates", key)
	u.RawQuery = q.Encode()
	return u.String()
}

func (b *Board) eventLink(e event) string {
	if href := e.link(); href != "" {
		return href
	}
	if e.ID != "" {
		return GameURLPrefix + e.ID
	}
	return b.fallbackLink
}

// pastDays returns the UTC days before now, most recent first.
func pastDays(now time.Time, days int) []time.Time {
	out := make([]time.Time, 0, days)
	for i := 1; i <= days; i++ {
		out = append(out, now.UTC().AddDate(0, 0, -i))
	}
	return out
}

// nextDays returns today and the following UTC days.
func nextDays(now time.Time, days int) []time.Time {
	out := make([]time.Time, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, now.UTC().AddDate(0, 0, i))
	}
	return out
}

func scoreTitle(home, away competitor, _ event) string {
	return fmt.Sprintf("%s %s - %s %s", away.Team.DisplayName, away.Score, home.Score, home.Team.DisplayName)
}

func scheduleTitle(home, away competitor, e event) string {
	return fmt.Sprintf("%s vs %s - %s", away.Team.DisplayName, home.Team.DisplayName, tipoff(e.Date))
}

// tipoff formats an event time as Eastern wall clock, e.g. "7:30 PM ET".
func tipoff(s string) string {
	t, err := datefmt.Parse(s)
	if err != nil {
		return "TBD"
	}
	return t.In(eastern).Format("3:04 PM") + " ET"
}
