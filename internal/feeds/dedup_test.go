package feeds

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Thunder   win \n Game 5  ", "Thunder win Game 5"},
		{"\tLeBron\t\tJames", "LeBron James"},
		{"", ""},
		{"already clean", "already clean"},
	}

	for _, tc := range tests {
		if got := NormalizeTitle(tc.input); got != tc.expected {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestSimilarSameLink(t *testing.T) {
	a := Item{Title: "Completely different headline one", Link: "https://www.nba.com/news/a"}
	b := Item{Title: "Nothing alike at all here", Link: "https://www.nba.com/news/a"}
	if !Similar(a, b) {
		t.Error("items with identical links should be similar")
	}
}

func TestSimilarPrefixMatch(t *testing.T) {
	a := Item{Title: "Thunder-Pacers: 5 takeaways as Jalen Williams carries OKC", Link: "https://a/1"}
	b := Item{Title: "THUNDER-PACERS: 5 TAKEAWAYS", Link: "https://b/1"}
	if !Similar(a, b) {
		t.Error("truncated rendering of the same headline should be similar")
	}
	if !Similar(b, a) {
		t.Error("Similar should be symmetric")
	}
}

func TestSimilarDistinct(t *testing.T) {
	a := Item{Title: "Pacers trade Mojave King and No. 23 pick", Link: "https://a/1"}
	b := Item{Title: "LeBron James feeling good ahead of season", Link: "https://a/2"}
	if Similar(a, b) {
		t.Error("distinct headlines should not be similar")
	}
}

// Two different stories that open with the same 20 characters collapse into
// one. This is a known tolerance of the prefix rule.
func TestSimilarSharedOpeningIsTolerated(t *testing.T) {
	a := Item{Title: "NBA Draft 2025: Complete order for all 59 picks", Link: "https://a/1"}
	b := Item{Title: "NBA Draft 2025: Complete guide to the prospects", Link: "https://a/2"}
	if !Similar(a, b) {
		t.Error("expected shared 20-char prefix to be treated as duplicate")
	}
}

func TestSimilarMultibytePrefix(t *testing.T) {
	a := Item{Title: "湖人队在加时赛中击败勇士队，詹姆斯砍下三十分", Link: "https://a/1"}
	b := Item{Title: "湖人队在加时赛中击败勇士队，詹姆斯砍下三十分并送出十次助攻", Link: "https://a/2"}
	if !Similar(a, b) {
		t.Error("rune prefix should match multibyte titles")
	}
}

func TestCollectionRejectsDuplicates(t *testing.T) {
	c := NewCollection(0)

	if !c.Add(Item{Title: "Finals Film Study: Thunder find transition points", Link: "https://a/1"}) {
		t.Fatal("first item should be accepted")
	}
	if c.Add(Item{Title: "Something else entirely different", Link: "https://a/1"}) {
		t.Error("same link should be rejected")
	}
	if c.Add(Item{Title: "Finals Film Study: Thunder find more", Link: "https://a/2"}) {
		t.Error("similar title should be rejected")
	}
	if !c.Add(Item{Title: "Turning Point: Tyrese Haliburton fails to launch", Link: "https://a/3"}) {
		t.Error("distinct item should be accepted")
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 items, got %d", c.Len())
	}
}

func TestCollectionLimit(t *testing.T) {
	c := NewCollection(2)
	titles := []string{
		"Pacers trade Mojave King to the Pelicans",
		"Thirteen early entry candidates withdraw",
		"LeBron James begins prepping for season 23",
	}
	for i, title := range titles {
		c.Add(Item{Title: title, Link: "https://a/" + string(rune('a'+i))})
	}
	if !c.Full() {
		t.Error("collection should be full")
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 items, got %d", c.Len())
	}
	if c.Add(Item{Title: "Yet another unrelated headline here", Link: "https://a/z"}) {
		t.Error("full collection should reject items")
	}
}

func TestDedupIdempotent(t *testing.T) {
	items := []Item{
		{Title: "Pacers trade Mojave King and No. 23 pick in 2025 Draft", Link: "https://a/1"},
		{Title: "Pacers trade Mojave King and No. 23 pick", Link: "https://a/2"},
		{Title: "NBA Finals MVP Ladder: SGA stays on top", Link: "https://a/3"},
		{Title: "Unrelated headline about the Celtics", Link: "https://a/3"},
		{Title: "Thirteen additional early entry candidates withdraw", Link: "https://a/4"},
	}

	once := Dedup(items)
	if len(once) != 3 {
		t.Fatalf("expected 3 items after dedup, got %d", len(once))
	}

	twice := Dedup(once)
	if len(twice) != len(once) {
		t.Fatalf("second dedup changed length: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("item %d changed on second dedup: %+v -> %+v", i, once[i], twice[i])
		}
	}
}

func TestDedupEmpty(t *testing.T) {
	if got := Dedup(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %d items", len(got))
	}
}

func TestItemJSONRoundTrip(t *testing.T) {
	ts := time.Date(2025, 6, 17, 3, 4, 5, 678_000_000, time.UTC)
	item := Item{
		Title:     "Boston Celtics 118 - 108 Denver Nuggets",
		Link:      "https://www.nba.com/games",
		Date:      "Yesterday",
		Source:    "NBA Scores",
		Timestamp: ts,
		Type:      TypeScore,
	}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"timestamp":"2025-06-17T03:04:05.678Z"`) {
		t.Errorf("unexpected timestamp encoding: %s", data)
	}

	var decoded Item
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", decoded.Timestamp, ts)
	}
	if decoded.Type != TypeScore {
		t.Errorf("type = %q, want score", decoded.Type)
	}
}

func TestItemMissingTypeDefaultsToNews(t *testing.T) {
	var item Item
	if err := json.Unmarshal([]byte(`{"title":"x","link":"y"}`), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if item.Type != TypeNews {
		t.Errorf("type = %q, want news", item.Type)
	}

	if err := json.Unmarshal([]byte(`{"title":"x","link":"y","type":"podcast"}`), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if item.Type != TypeNews {
		t.Errorf("unknown type = %q, want news", item.Type)
	}
}

func TestCaptureTimeTruncates(t *testing.T) {
	now := time.Date(2025, 6, 17, 3, 4, 5, 678_901_234, time.FixedZone("X", 3600))
	got := CaptureTime(now)
	if got.Nanosecond() != 678_000_000 {
		t.Errorf("nanoseconds = %d, want 678000000", got.Nanosecond())
	}
	if got.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", got.Location())
	}
}
