// Package rss reads news items from RSS and Atom feeds.
package rss

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/abelbrown/courtside/internal/datefmt"
	"github.com/abelbrown/courtside/internal/feeds"
	"github.com/abelbrown/courtside/internal/fetch"
)

// DefaultURL is the nba.com news feed.
const DefaultURL = "https://www.nba.com/news/rss.xml"

// DefaultCap bounds items per run.
const DefaultCap = 8

// maxFeedBytes caps how much of a feed is parsed.
const maxFeedBytes = 4 << 20

// Source fetches items from an RSS/Atom feed
type Source struct {
	name    string
	url     string
	cap     int
	fetcher *fetch.Fetcher
	parser  *gofeed.Parser
	policy  *bluemonday.Policy
	now     func() time.Time
}

// New creates a new RSS source. Empty name and url fall back to the nba.com
// feed, cap <= 0 to DefaultCap.
func New(name, url string, cap int, f *fetch.Fetcher) *Source {
	if name == "" {
		name = "NBA RSS"
	}
	if url == "" {
		url = DefaultURL
	}
	if cap <= 0 {
		cap = DefaultCap
	}
	return &Source{
		name:    name,
		url:     url,
		cap:     cap,
		fetcher: f,
		parser:  gofeed.NewParser(),
		policy:  bluemonday.StrictPolicy(),
		now:     time.Now,
	}
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Type() feeds.Type {
	return feeds.TypeNews
}

func (s *Source) Fetch(ctx context.Context) ([]feeds.Item, error) {
	resp, err := s.fetcher.Get(ctx, s.url, fetch.AcceptFeed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	defer resp.Body.Close()

	feed, err := s.parser.Parse(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse feed %s: %w", s.name, s.url, err)
	}

	now := s.now()
	ts := feeds.CaptureTime(now)
	col := feeds.NewCollection(s.cap)

	for _, entry := range feed.Items {
		if col.Full() {
			break
		}
		title := feeds.NormalizeTitle(html.UnescapeString(s.policy.Sanitize(entry.Title)))
		link := strings.TrimSpace(entry.Link)
		if title == "" || link == "" {
			continue
		}

		published := now
		if entry.PublishedParsed != nil {
			published = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			published = *entry.UpdatedParsed
		}

		col.Add(feeds.Item{
			Title:     title,
			Link:      link,
			Date:      datefmt.Relative(published, now),
			Source:    s.name,
			Timestamp: ts,
			Type:      feeds.TypeNews,
		})
	}

	return col.Items(), nil
}
