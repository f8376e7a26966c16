package coord

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/abelbrown/courtside/internal/fallback"
	"github.com/abelbrown/courtside/internal/feeds"
	"github.com/abelbrown/courtside/internal/otel"
)

var testNow = time.Date(2025, 6, 17, 15, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

// fakeSource implements feeds.Source for testing.
type fakeSource struct {
	name  string
	typ   feeds.Type
	items []feeds.Item
	err   error
	delay time.Duration
	panic bool
}

func (f *fakeSource) Name() string     { return f.name }
func (f *fakeSource) Type() feeds.Type { return f.typ }

func (f *fakeSource) Fetch(ctx context.Context) ([]feeds.Item, error) {
	if f.panic {
		panic("adapter bug")
	}
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.items, f.err
}

// recorder collects events.
type recorder struct {
	mu     sync.Mutex
	events []otel.Event
}

func (r *recorder) Emit(e otel.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) kinds() map[otel.EventKind]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[otel.EventKind]int)
	for _, e := range r.events {
		out[e.Kind]++
	}
	return out
}

func item(title, link string, typ feeds.Type, ts time.Time) feeds.Item {
	return feeds.Item{Title: title, Link: link, Date: "Today", Source: "test", Timestamp: ts, Type: typ}
}

func TestAllFailingYieldsBundle(t *testing.T) {
	rec := &recorder{}
	p := New([]feeds.Source{
		&fakeSource{name: "NBA Official", typ: feeds.TypeNews, err: errors.New("timeout")},
		&fakeSource{name: "NBA Scores", typ: feeds.TypeScore, err: errors.New("502")},
		&fakeSource{name: "NBA Schedule", typ: feeds.TypeSchedule, err: errors.New("dns")},
	}, Options{Sink: rec, Now: clock})

	rep := p.RunReport(context.Background())
	want := fallback.Bundle(testNow)

	if !rep.Fallback {
		t.Error("Fallback should be set")
	}
	if len(rep.Failures) != 3 {
		t.Errorf("expected 3 failures, got %d", len(rep.Failures))
	}
	if len(rep.Items) != len(want) {
		t.Fatalf("expected %d bundle items, got %d", len(want), len(rep.Items))
	}
	for i := range want {
		if rep.Items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, rep.Items[i], want[i])
		}
	}

	kinds := rec.kinds()
	if kinds[otel.KindAdapterError] != 3 || kinds[otel.KindPipelineFallback] != 1 || kinds[otel.KindPipelineMerge] != 1 {
		t.Errorf("unexpected events: %v", kinds)
	}
}

func TestEmptySuccessYieldsBundle(t *testing.T) {
	p := New([]feeds.Source{&fakeSource{name: "empty", typ: feeds.TypeNews}}, Options{Now: clock})
	if got := p.Run(context.Background()); len(got) != len(fallback.Bundle(testNow)) {
		t.Errorf("expected bundle, got %d items", len(got))
	}
}

func TestMergeOrderDedupAndSort(t *testing.T) {
	early := testNow.Add(-time.Minute)
	late := testNow

	news := &fakeSource{name: "news", typ: feeds.TypeNews, items: []feeds.Item{
		item("Thunder take 3-2 lead over Pacers in NBA Finals", "https://a/1", feeds.TypeNews, early),
		item("Haliburton plays through calf strain in Game 5", "https://a/2", feeds.TypeNews, early),
	}}
	more := &fakeSource{name: "more", typ: feeds.TypeNews, items: []feeds.Item{
		item("Thunder take 3-2 lead over Pacers, reactions", "https://b/1", feeds.TypeNews, late),
		item("Knicks hire Mike Brown as head coach", "https://b/2", feeds.TypeNews, late),
	}}
	scores := &fakeSource{name: "scores", typ: feeds.TypeScore, items: []feeds.Item{
		item("Indiana Pacers 108 - 118 Oklahoma City Thunder", "https://c/1", feeds.TypeScore, early),
	}}

	rep := New([]feeds.Source{news, more, scores}, Options{Now: clock}).RunReport(context.Background())
	if rep.Fallback {
		t.Fatal("live items present, fallback should not be used")
	}

	want := []string{
		"Knicks hire Mike Brown as head coach",
		"Thunder take 3-2 lead over Pacers in NBA Finals",
		"Haliburton plays through calf strain in Game 5",
		"Indiana Pacers 108 - 118 Oklahoma City Thunder",
	}
	if len(rep.Items) != len(want) {
		t.Fatalf("expected %d items, got %d: %+v", len(want), len(rep.Items), rep.Items)
	}
	for i, title := range want {
		if rep.Items[i].Title != title {
			t.Errorf("item %d = %q, want %q", i, rep.Items[i].Title, title)
		}
	}
}

func TestOutputCapped(t *testing.T) {
	var items []feeds.Item
	for i := 0; i < 40; i++ {
		items = append(items, item(fmt.Sprintf("Headline %02d about a separate storyline", i), fmt.Sprintf("https://x/%d", i), feeds.TypeNews, testNow))
	}
	src := &fakeSource{name: "big", typ: feeds.TypeNews, items: items}

	if got := New([]feeds.Source{src}, Options{Now: clock}).Run(context.Background()); len(got) != DefaultMaxItems {
		t.Errorf("expected %d items, got %d", DefaultMaxItems, len(got))
	}
	if got := New([]feeds.Source{src}, Options{MaxItems: 5, Now: clock}).Run(context.Background()); len(got) != 5 {
		t.Errorf("expected 5 items, got %d", len(got))
	}
}

func TestPanickingSourceIsIsolated(t *testing.T) {
	good := &fakeSource{name: "good", typ: feeds.TypeNews, items: []feeds.Item{
		item("Knicks hire Mike Brown as head coach", "https://b/2", feeds.TypeNews, testNow),
	}}
	rep := New([]feeds.Source{&fakeSource{name: "bad", panic: true}, good}, Options{Now: clock}).RunReport(context.Background())

	if len(rep.Items) != 1 || rep.Items[0].Link != "https://b/2" {
		t.Errorf("expected the good source's item, got %+v", rep.Items)
	}
	if len(rep.Failures) != 1 || !errors.Is(rep.Failures[0].Err, ErrPanic) {
		t.Errorf("failures = %+v", rep.Failures)
	}
}

func TestAdapterTimeout(t *testing.T) {
	slow := &fakeSource{name: "slow", typ: feeds.TypeNews, delay: time.Second}
	start := time.Now()
	rep := New([]feeds.Source{slow}, Options{AdapterTimeout: 20 * time.Millisecond, Now: clock}).RunReport(context.Background())

	if time.Since(start) > 500*time.Millisecond {
		t.Error("adapter timeout not applied")
	}
	if len(rep.Failures) != 1 || !errors.Is(rep.Failures[0].Err, context.DeadlineExceeded) {
		t.Errorf("failures = %+v", rep.Failures)
	}
	if !rep.Fallback {
		t.Error("expected fallback after the only source timed out")
	}
}

func TestPerSourceFallback(t *testing.T) {
	rec := &recorder{}
	news := &fakeSource{name: "news", typ: feeds.TypeNews, items: []feeds.Item{
		item("Knicks hire Mike Brown as head coach", "https://b/2", feeds.TypeNews, testNow),
	}}
	scores := &fakeSource{name: "scores", typ: feeds.TypeScore, err: errors.New("502")}

	rep := New([]feeds.Source{news, scores}, Options{PerSourceFallback: true, Sink: rec, Now: clock}).RunReport(context.Background())

	if rep.Fallback {
		t.Error("bundle should not be used when substitution produced items")
	}
	var scoreCount int
	for _, it := range rep.Items {
		if it.Type == feeds.TypeScore {
			scoreCount++
		}
	}
	if want := len(fallback.Scores(testNow)); scoreCount != want {
		t.Errorf("expected %d substituted score items (not deduped), got %d", want, scoreCount)
	}
	if rec.kinds()[otel.KindAdapterFallback] != 1 {
		t.Errorf("expected one adapter.fallback event: %v", rec.kinds())
	}
}

func TestPromoFilterApplied(t *testing.T) {
	src := &fakeSource{name: "ESPN NBA", typ: feeds.TypeNews, items: []feeds.Item{
		item("SPONSORED: Upgrade your League Pass today", "https://a/1", feeds.TypeNews, testNow),
		item("Knicks hire Mike Brown as head coach", "https://a/2", feeds.TypeNews, testNow),
		{Title: "Missing link entry is dropped", Type: feeds.TypeNews, Timestamp: testNow},
	}}
	got := New([]feeds.Source{src}, Options{Filter: feeds.DefaultFilter(), Now: clock}).Run(context.Background())
	if len(got) != 1 || got[0].Link != "https://a/2" {
		t.Errorf("expected only the clean item, got %+v", got)
	}
}

func TestSourcesAndEvents(t *testing.T) {
	rec := &recorder{}
	p := New([]feeds.Source{
		&fakeSource{name: "a", typ: feeds.TypeNews, items: []feeds.Item{item("Knicks hire Mike Brown as head coach", "https://b/2", feeds.TypeNews, testNow)}},
		&fakeSource{name: "b", typ: feeds.TypeScore},
	}, Options{Sink: rec, Now: clock})

	if fmt.Sprint(p.Sources()) != "[a b]" {
		t.Errorf("Sources = %v", p.Sources())
	}
	p.Run(context.Background())

	kinds := rec.kinds()
	if kinds[otel.KindAdapterStart] != 2 || kinds[otel.KindAdapterComplete] != 2 {
		t.Errorf("events = %v", kinds)
	}
}
