package ui

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/courtside/internal/datefmt"
	"github.com/abelbrown/courtside/internal/feeds"
)

// maxNewsTitle is the rune length beyond which news titles are cut.
const maxNewsTitle = 100

var (
	scorePattern       = regexp.MustCompile(`^(.+?)\s+(\d+)\s*-\s*(\d+)\s+(.+?)(?:\s*\((.+?)\))?$`)
	simpleScorePattern = regexp.MustCompile(`(.+?)\s+(\d+)\s*-\s*(\d+)\s+(.+)`)
	parenPattern       = regexp.MustCompile(`\s*\(.+?\)`)
	gamePattern        = regexp.MustCompile(`(.+?)\s+vs\s+(.+?)\s*-\s*(.+)`)
)

// Score is a final score parsed from a score title.
type Score struct {
	Team1, Team2   string
	Score1, Score2 string
	Info           string // e.g. "Game 3 Finals"
}

// ParseScore splits "Team A 116 - 109 Team B (info)". Titles that do not
// match keep the whole title as Team1 with "--" scores.
func ParseScore(title string) Score {
	if m := scorePattern.FindStringSubmatch(title); m != nil {
		return Score{
			Team1:  strings.TrimSpace(m[1]),
			Score1: m[2],
			Score2: m[3],
			Team2:  strings.TrimSpace(m[4]),
			Info:   m[5],
		}
	}
	if m := simpleScorePattern.FindStringSubmatch(title); m != nil {
		return Score{
			Team1:  strings.TrimSpace(m[1]),
			Score1: m[2],
			Score2: m[3],
			Team2:  strings.TrimSpace(parenPattern.ReplaceAllString(m[4], "")),
		}
	}
	return Score{Team1: title, Score1: "--", Score2: "--"}
}

// Game is an upcoming matchup parsed from a schedule title.
type Game struct {
	Team1, Team2 string
	Time         string
}

// ParseGame splits "Team A vs Team B - 8:00 PM ET". Titles that do not
// match keep the whole title as Team1 and use date as the time.
func ParseGame(title, date string) Game {
	if m := gamePattern.FindStringSubmatch(title); m != nil {
		return Game{
			Team1: strings.TrimSpace(m[1]),
			Team2: strings.TrimSpace(m[2]),
			Time:  strings.TrimSpace(m[3]),
		}
	}
	return Game{Team1: title, Time: date}
}

// DateLabel returns the label shown on a card. Labels that parse as a time
// are rendered relative to now; anything else is shown as sent.
func DateLabel(date string, now time.Time) string {
	date = strings.TrimSpace(date)
	if date == "" || date == datefmt.Fallback {
		return datefmt.Fallback
	}
	if t, err := datefmt.Parse(date); err == nil {
		return datefmt.Relative(t, now)
	}
	return date
}

// truncate cuts s to max runes and appends suffix when it was longer.
func truncate(s string, max int, suffix string) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + suffix
}

// cardText returns the plain text of a card line for item.
func cardText(item feeds.Item, now time.Time) string {
	date := DateLabel(item.Date, now)
	switch item.Type {
	case feeds.TypeScore:
		s := ParseScore(item.Title)
		status := "FINAL"
		if s.Info != "" {
			status += " - " + s.Info
		}
		return status + " · " + s.Team1 + " vs " + s.Team2 + " · " + s.Score1 + " - " + s.Score2 + " · " + date
	case feeds.TypeSchedule:
		g := ParseGame(item.Title, item.Date)
		return "UPCOMING · " + g.Team1 + " vs " + g.Team2 + " · " + g.Time + " · " + date
	default:
		return truncate(item.Title, maxNewsTitle, "...") + " · " + date
	}
}

// renderCard renders a single card line fitted to width.
func renderCard(item feeds.Item, selected bool, width int, now time.Time) string {
	badge := SourceBadge.Render(item.Source)

	textWidth := width - lipgloss.Width(badge) - 4
	if textWidth < 20 {
		textWidth = 20
	}
	text := truncate(cardText(item, now), textWidth-3, "...")

	style := NormalItem
	if selected {
		style = SelectedItem
	}
	return badge + style.Render(text)
}
