package client

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abelbrown/courtside/internal/feeds"
)

//go:embed static.json
var staticJSON []byte

type staticBundle struct {
	News     []feeds.Item `json:"news"`
	Scores   []feeds.Item `json:"scores"`
	Schedule []feeds.Item `json:"schedule"`
}

// Static returns the bundle shipped with the client, news then scores then
// schedule, stamped at now.
func Static(now time.Time) []feeds.Item {
	items, err := parseStatic(staticJSON, now)
	if err != nil {
		// The bundle is compiled in; a decode failure is a build defect.
		panic(err)
	}
	return items
}

func parseStatic(data []byte, now time.Time) ([]feeds.Item, error) {
	var b staticBundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("client: decode static bundle: %w", err)
	}

	ts := feeds.CaptureTime(now)
	out := make([]feeds.Item, 0, len(b.News)+len(b.Scores)+len(b.Schedule))
	add := func(items []feeds.Item, t feeds.Type) {
		for _, item := range items {
			item.Type = t
			item.Timestamp = ts
			out = append(out, item)
		}
	}
	add(b.News, feeds.TypeNews)
	add(b.Scores, feeds.TypeScore)
	add(b.Schedule, feeds.TypeSchedule)
	return out, nil
}
