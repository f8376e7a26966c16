package otel

import (
	"fmt"
	"sync"
	"testing"
)

func TestRingSnapshotOrder(t *testing.T) {
	r := NewRingBuffer(4)
	for i := 0; i < 3; i++ {
		r.Emit(Event{Kind: KindAdapterComplete, Count: i})
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 events, got %d", len(snap))
	}
	for i, e := range snap {
		if e.Count != i {
			t.Errorf("snap[%d].Count = %d, want %d", i, e.Count, i)
		}
	}
}

func TestRingWrapAround(t *testing.T) {
	r := NewRingBuffer(3)
	for i := 0; i < 7; i++ {
		r.Emit(Event{Kind: KindAdapterComplete, Count: i})
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 events, got %d", len(snap))
	}
	for i, want := range []int{4, 5, 6} {
		if snap[i].Count != want {
			t.Errorf("snap[%d].Count = %d, want %d", i, snap[i].Count, want)
		}
	}
	if r.Len() != 3 || r.Cap() != 3 {
		t.Errorf("Len/Cap = %d/%d, want 3/3", r.Len(), r.Cap())
	}
}

func TestRingRecentFiltersByPrefix(t *testing.T) {
	r := NewRingBuffer(8)
	r.Emit(Event{Kind: KindAdapterStart, Count: 1})
	r.Emit(Event{Kind: KindHTTPRequest, Count: 2})
	r.Emit(Event{Kind: KindAdapterComplete, Count: 3})
	r.Emit(Event{Kind: KindAdapterError, Count: 4})
	r.Emit(Event{Kind: KindPipelineMerge, Count: 5})

	got := r.Recent(2, "adapter.")
	if len(got) != 2 || got[0].Count != 3 || got[1].Count != 4 {
		t.Errorf("Recent(2, adapter.) = %+v", got)
	}
	if all := r.Recent(100, ""); len(all) != 5 {
		t.Errorf("Recent(100, \"\") returned %d, want 5", len(all))
	}
	if r.Recent(0, "") != nil || r.Recent(-1, "") != nil {
		t.Error("non-positive n should return nil")
	}
}

func TestRingEmpty(t *testing.T) {
	r := NewRingBuffer(0)
	if r.Cap() != DefaultRingSize {
		t.Errorf("Cap = %d, want %d", r.Cap(), DefaultRingSize)
	}
	if r.Snapshot() != nil {
		t.Error("empty snapshot should be nil")
	}
	if len(r.Stats()) != 0 {
		t.Error("empty stats should be empty")
	}
}

func TestRingStats(t *testing.T) {
	r := NewRingBuffer(2)
	r.Emit(Event{Kind: KindAdapterError})
	r.Emit(Event{Kind: KindAdapterComplete})
	r.Emit(Event{Kind: KindAdapterComplete})

	stats := r.Stats()
	if stats[KindAdapterComplete] != 2 || stats[KindAdapterError] != 0 {
		t.Errorf("stats = %v", stats)
	}
}

func TestRingCopiesExtra(t *testing.T) {
	r := NewRingBuffer(2)
	extra := map[string]any{"date": "20250616"}
	r.Emit(Event{Kind: KindAdapterDateError, Extra: extra})
	extra["date"] = "mutated"

	if got := r.Snapshot()[0].Extra["date"]; got != "20250616" {
		t.Errorf("Extra aliased caller map: %v", got)
	}
}

func TestRingConcurrent(t *testing.T) {
	r := NewRingBuffer(64)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Emit(Event{Kind: KindHTTPRequest, Msg: fmt.Sprint(i, j)})
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = r.Recent(10, "http.")
			}
		}()
	}
	wg.Wait()
	if r.Len() != 64 {
		t.Errorf("Len = %d, want 64", r.Len())
	}
}

func TestRingBehindTee(t *testing.T) {
	r := NewRingBuffer(4)
	l := NewNullLogger()
	defer l.Close()

	Tee(l, r).Emit(Event{Kind: KindStartup})
	if r.Len() != 1 {
		t.Errorf("ring should receive tee'd event, Len = %d", r.Len())
	}
}
