// Package fallback holds the hand-authored items served when live sources
// produce nothing. Every call stamps fresh timestamps.
package fallback

import (
	"time"

	"github.com/abelbrown/courtside/internal/feeds"
)

// entry is a fallback item without its timestamp.
type entry struct {
	title, link, date, source string
	typ                       feeds.Type
}

var news = []entry{
	{"LeBron James reaches 40,000 career points milestone in Lakers victory", "https://www.nba.com/news", "Today", "NBA Official", feeds.TypeNews},
	{"Nikola Jokic records triple-double as Nuggets defeat Warriors 118-108", "https://www.nba.com/news", "Yesterday", "NBA Official", feeds.TypeNews},
	{"NBA Trade Deadline: Latest rumors and potential moves to watch", "https://www.nba.com/news", "2 days ago", "ESPN NBA", feeds.TypeNews},
}

var scores = []entry{
	{"Los Angeles Lakers 128 - 115 Golden State Warriors", "https://www.nba.com/games", "Yesterday", "NBA Scores", feeds.TypeScore},
	{"Boston Celtics 118 - 108 Denver Nuggets", "https://www.nba.com/games", "Yesterday", "NBA Scores", feeds.TypeScore},
	{"Miami Heat 112 - 95 Chicago Bulls", "https://www.nba.com/games", "2 days ago", "NBA Scores", feeds.TypeScore},
}

var schedule = []entry{
	{"Milwaukee Bucks vs Philadelphia 76ers - Tonight 8:00 PM ET", "https://www.nba.com/schedule", "Today", "NBA Schedule", feeds.TypeSchedule},
	{"Phoenix Suns vs Dallas Mavericks - Tomorrow 9:30 PM ET", "https://www.nba.com/schedule", "Tomorrow", "NBA Schedule", feeds.TypeSchedule},
}

func build(now time.Time, groups ...[]entry) []feeds.Item {
	ts := feeds.CaptureTime(now)
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	out := make([]feeds.Item, 0, n)
	for _, g := range groups {
		for _, e := range g {
			out = append(out, feeds.Item{
				Title:     e.title,
				Link:      e.link,
				Date:      e.date,
				Source:    e.source,
				Timestamp: ts,
				Type:      e.typ,
			})
		}
	}
	return out
}

// News returns the fallback news items.
func News(now time.Time) []feeds.Item { return build(now, news) }

// Scores returns the fallback score items.
func Scores(now time.Time) []feeds.Item { return build(now, scores) }

// Schedule returns the fallback schedule items.
func Schedule(now time.Time) []feeds.Item { return build(now, schedule) }

// Bundle returns news, scores and schedule in that order.
func Bundle(now time.Time) []feeds.Item { return build(now, news, scores, schedule) }

// For returns the fallback items of one category. Unknown types get news.
func For(t feeds.Type, now time.Time) []feeds.Item {
	switch t {
	case feeds.TypeScore:
		return Scores(now)
	case feeds.TypeSchedule:
		return Schedule(now)
	default:
		return News(now)
	}
}
