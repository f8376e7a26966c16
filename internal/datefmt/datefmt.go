// Package datefmt renders event times as short relative labels for cards.
package datefmt

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Fallback is returned for input that cannot be parsed as a time.
const Fallback = "Recently"

// day is the length of one label step.
const day = 24 * time.Hour

// calendarLayout renders dates a week or more away, US month/day/year.
const calendarLayout = "1/2/2006"

// layouts are tried in order by Parse. ESPN scoreboards use the minute-precision form.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// DiffDays returns the absolute distance between a and b in whole days,
// rounded up. Equal instants are 0 days apart, anything else at least 1.
func DiffDays(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(float64(d) / float64(day)))
}

// Relative labels target relative to now: "Today", "Yesterday"/"Tomorrow",
// "N days ago"/"N days away" up to six days, then a calendar date.
func Relative(target, now time.Time) string {
	days := DiffDays(now, target)
	past := target.Before(now)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		if past {
			return "Yesterday"
		}
		return "Tomorrow"
	case days < 7:
		if past {
			return fmt.Sprintf("%d days ago", days)
		}
		return fmt.Sprintf("%d days away", days)
	default:
		return target.Format(calendarLayout)
	}
}

// Parse reads the timestamp formats upstream APIs emit.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("datefmt: unrecognized time %q: %w", s, lastErr)
}

// RelativeString parses s and labels it relative to now. Unparseable input
// yields Fallback.
func RelativeString(s string, now time.Time) string {
	t, err := Parse(s)
	if err != nil {
		return Fallback
	}
	return Relative(t, now)
}
