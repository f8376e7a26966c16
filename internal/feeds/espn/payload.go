package espn

import (
	"bytes"
	"encoding/json"
	"strings"
)

// scoreboard is the subset of the scoreboard payload the adapters read.
type scoreboard struct {
	Events []event `json:"events"`
}

type event struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Status struct {
		Type struct {
			Completed bool `json:"completed"`
		} `json:"type"`
	} `json:"status"`
	Competitions []struct {
		Competitors []competitor `json:"competitors"`
	} `json:"competitions"`
	Links []struct {
		Href string `json:"href"`
	} `json:"links"`
}

type competitor struct {
	HomeAway string      `json:"homeAway"`
	Score    looseString `json:"score"`
	Team     struct {
		DisplayName string `json:"displayName"`
	} `json:"team"`
}

// sides returns the home and away competitors of the first competition.
func (e event) sides() (home, away competitor, ok bool) {
	if len(e.Competitions) == 0 {
		return home, away, false
	}
	var foundHome, foundAway bool
	for _, c := range e.Competitions[0].Competitors {
		switch c.HomeAway {
		case "home":
			if !foundHome {
				home, foundHome = c, true
			}
		case "away":
			if !foundAway {
				away, foundAway = c, true
			}
		}
	}
	return home, away, foundHome && foundAway
}

// link returns the first event link, if any.
func (e event) link() string {
	for _, l := range e.Links {
		if href := strings.TrimSpace(l.Href); href != "" {
			return href
		}
	}
	return ""
}

// looseString decodes a JSON string or number into its text form. Scores
// arrive as strings on the scoreboard and as numbers on some mirrors.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

// newsPayload is the subset of the news API payload the adapter reads.
type newsPayload struct {
	Articles []article `json:"articles"`
}

type article struct {
	Headline  string `json:"headline"`
	Title     string `json:"title"`
	Published string `json:"published"`
	Link      string `json:"link"`
	Links     struct {
		Web struct {
			Href string `json:"href"`
		} `json:"web"`
	} `json:"links"`
}
