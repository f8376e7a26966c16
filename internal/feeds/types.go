// Package feeds defines the unified item shape every upstream adapter produces,
// the similarity rule used to deduplicate items, and the Source interface the
// merge pipeline fans out over.
package feeds

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Type discriminates what an item describes. It drives client-side grouping.
type Type string

const (
	TypeNews     Type = "news"
	TypeScore    Type = "score"
	TypeSchedule Type = "schedule"
)

// Types lists every item type in display order.
func Types() []Type {
	return []Type{TypeNews, TypeScore, TypeSchedule}
}

// ParseType maps a wire value to a Type. Missing or unknown values are news.
func ParseType(s string) Type {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeScore:
		return TypeScore
	case TypeSchedule:
		return TypeSchedule
	default:
		return TypeNews
	}
}

// UnmarshalJSON decodes through ParseType so payloads without a type still
// land in a category.
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = TypeNews
		return nil
	}
	*t = ParseType(s)
	return nil
}

// TimestampLayout is the wire format of Item.Timestamp: RFC 3339 in UTC with
// millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Item is a single news, score or schedule entry. Items are built once by an
// adapter or the fallback provider and never modified afterwards.
type Item struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Date      string    `json:"date"`   // display label, e.g. "Yesterday"
	Source    string    `json:"source"` // "NBA Official", "ESPN NBA", ...
	Timestamp time.Time `json:"-"`      // capture time, not event time
	Type      Type      `json:"type"`
}

type wireItem struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Date      string `json:"date"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
	Type      Type   `json:"type"`
}

// MarshalJSON writes Timestamp in TimestampLayout.
func (i Item) MarshalJSON() ([]byte, error) {
	w := wireItem{
		Title:  i.Title,
		Link:   i.Link,
		Date:   i.Date,
		Source: i.Source,
		Type:   i.Type,
	}
	if !i.Timestamp.IsZero() {
		w.Timestamp = i.Timestamp.UTC().Format(TimestampLayout)
	}
	if w.Type == "" {
		w.Type = TypeNews
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts any RFC 3339 timestamp; an unparseable one is left zero.
func (i *Item) UnmarshalJSON(data []byte) error {
	w := wireItem{Type: TypeNews}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*i = Item{
		Title:  w.Title,
		Link:   w.Link,
		Date:   w.Date,
		Source: w.Source,
		Type:   w.Type,
	}
	if i.Type == "" {
		i.Type = TypeNews
	}
	if ts, err := time.Parse(time.RFC3339Nano, w.Timestamp); err == nil {
		i.Timestamp = ts
	}
	return nil
}

// Valid reports whether the item may enter a merged collection.
func (i Item) Valid() bool {
	return strings.TrimSpace(i.Title) != "" && strings.TrimSpace(i.Link) != ""
}

// CaptureTime returns the timestamp stamped on items built at now. Truncated
// to milliseconds so ordering matches the wire representation.
func CaptureTime(now time.Time) time.Time {
	return now.UTC().Truncate(time.Millisecond)
}

// Source is the interface every upstream adapter implements.
type Source interface {
	// Name returns the human-readable source label.
	Name() string

	// Type returns the category of items this source yields.
	Type() Type

	// Fetch retrieves and normalizes the latest items. An error means the
	// source produced nothing usable this run.
	Fetch(ctx context.Context) ([]Item, error)
}
