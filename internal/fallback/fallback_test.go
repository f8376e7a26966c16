package fallback

import (
	"testing"
	"time"

	"github.com/abelbrown/courtside/internal/feeds"
)

var testNow = time.Date(2025, 6, 17, 15, 0, 0, 123_456_789, time.UTC)

func TestBundleOrderAndShape(t *testing.T) {
	items := Bundle(testNow)
	if len(items) != 8 {
		t.Fatalf("expected 8 items, got %d", len(items))
	}

	wantTypes := []feeds.Type{
		feeds.TypeNews, feeds.TypeNews, feeds.TypeNews,
		feeds.TypeScore, feeds.TypeScore, feeds.TypeScore,
		feeds.TypeSchedule, feeds.TypeSchedule,
	}
	for i, item := range items {
		if item.Type != wantTypes[i] {
			t.Errorf("item %d type = %q, want %q", i, item.Type, wantTypes[i])
		}
		if !item.Valid() {
			t.Errorf("item %d invalid: %+v", i, item)
		}
		if !item.Timestamp.Equal(feeds.CaptureTime(testNow)) {
			t.Errorf("item %d timestamp = %v", i, item.Timestamp)
		}
	}
}

func TestFreshSlices(t *testing.T) {
	a := Bundle(testNow)
	a[0].Title = "mutated"
	if b := Bundle(testNow); b[0].Title == "mutated" {
		t.Error("Bundle must return a fresh slice each call")
	}
}

func TestTimestampsFollowNow(t *testing.T) {
	later := testNow.Add(time.Hour)
	if !News(later)[0].Timestamp.Equal(feeds.CaptureTime(later)) {
		t.Error("timestamps should be stamped at call time")
	}
}

func TestFor(t *testing.T) {
	tests := []struct {
		typ  feeds.Type
		n    int
		want feeds.Type
	}{
		{feeds.TypeNews, 3, feeds.TypeNews},
		{feeds.TypeScore, 3, feeds.TypeScore},
		{feeds.TypeSchedule, 2, feeds.TypeSchedule},
		{feeds.Type("podcast"), 3, feeds.TypeNews},
	}
	for _, tt := range tests {
		items := For(tt.typ, testNow)
		if len(items) != tt.n {
			t.Errorf("For(%q) returned %d items, want %d", tt.typ, len(items), tt.n)
		}
		for _, item := range items {
			if item.Type != tt.want {
				t.Errorf("For(%q) item type = %q", tt.typ, item.Type)
			}
		}
	}
}
