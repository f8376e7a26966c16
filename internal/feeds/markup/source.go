// Package markup scrapes news headlines from HTML listing pages.
//
// Extraction is driven by a Profile: prioritized candidate selectors plus
// ordered link and title strategies. Every strategy is a pure function over a
// goquery selection, so profiles can be tested against fixture markup.
package markup

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/abelbrown/courtside/internal/datefmt"
	"github.com/abelbrown/courtside/internal/feeds"
	"github.com/abelbrown/courtside/internal/fetch"
	"github.com/abelbrown/courtside/internal/otel"
)

// Source fetches a listing page and extracts news items from it.
type Source struct {
	profile Profile
	fetcher *fetch.Fetcher
	sink    otel.Sink
	now     func() time.Time
}

// New creates a markup source. A nil sink discards trace events.
func New(p Profile, f *fetch.Fetcher, sink otel.Sink) *Source {
	return &Source{
		profile: p,
		fetcher: f,
		sink:    otel.OrDiscard(sink),
		now:     time.Now,
	}
}

func (s *Source) Name() string {
	return s.profile.Name
}

func (s *Source) Type() feeds.Type {
	return feeds.TypeNews
}

// Fetch downloads the page and runs Extract over it.
func (s *Source) Fetch(ctx context.Context) ([]feeds.Item, error) {
	doc, err := s.fetcher.Document(ctx, s.profile.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.profile.Name, err)
	}
	return extract(doc, s.profile, s.now(), s.sink), nil
}

// Extract applies p to an already parsed document.
func Extract(doc *goquery.Document, p Profile, now time.Time) []feeds.Item {
	return extract(doc, p, now, otel.Discard)
}

func extract(doc *goquery.Document, p Profile, now time.Time, sink otel.Sink) []feeds.Item {
	candidates := selectCandidates(doc, p.Candidates)
	if candidates == nil {
		return nil
	}

	origin, _ := url.Parse(p.Origin)
	ts := feeds.CaptureTime(now)
	label := datefmt.Relative(now, now)
	col := feeds.NewCollection(p.Cap)

	candidates.EachWithBreak(func(_ int, node *goquery.Selection) bool {
		if col.Full() {
			return false
		}

		href, anchor, ok := resolveLink(node, p.Link)
		if !ok {
			return true
		}

		title := deriveTitle(Candidate{Node: node, Anchor: anchor}, p.Titles, p.PreferLen)
		if n := feeds.TitleLen(title); n <= p.MinLen || n >= p.MaxLen {
			traceReject(sink, p.Name, href, "title outside band", title)
			return true
		}

		link := absolute(origin, href)
		if link == "" {
			traceReject(sink, p.Name, href, "unresolvable link", title)
			return true
		}

		item := feeds.Item{
			Title:     title,
			Link:      link,
			Date:      label,
			Source:    p.Name,
			Timestamp: ts,
			Type:      feeds.TypeNews,
		}
		if !col.Add(item) {
			traceReject(sink, p.Name, link, "duplicate", title)
		}
		return true
	})

	return col.Items()
}

// selectCandidates returns the matches of the first selector that has any.
func selectCandidates(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if found := doc.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return nil
}

func resolveLink(node *goquery.Selection, strategies []LinkStrategy) (string, *goquery.Selection, bool) {
	for _, strategy := range strategies {
		if href, anchor, ok := strategy(node); ok {
			return href, anchor, true
		}
	}
	return "", nil, false
}

// deriveTitle walks strategies until one yields text of at least preferLen
// runes. A later strategy that yields nothing keeps the earlier text.
func deriveTitle(c Candidate, strategies []TitleStrategy, preferLen int) string {
	title := ""
	for _, strategy := range strategies {
		if text := feeds.NormalizeTitle(strategy(c)); text != "" {
			title = text
		}
		if feeds.TitleLen(title) >= preferLen {
			break
		}
	}
	return title
}

// absolute resolves href against origin. Absolute http(s) links pass through.
func absolute(origin *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		if ref.Scheme != "http" && ref.Scheme != "https" {
			return ""
		}
		return ref.String()
	}
	if origin == nil || !origin.IsAbs() {
		return ""
	}
	return origin.ResolveReference(ref).String()
}

func traceReject(sink otel.Sink, source, link, reason, title string) {
	if !otel.TraceEnabled() {
		return
	}
	if r := []rune(title); len(r) > 60 {
		title = strings.TrimSpace(string(r[:60]))
	}
	sink.Emit(otel.Event{
		Level:  otel.LevelDebug,
		Kind:   otel.KindCandidateRejected,
		Comp:   "markup",
		Source: source,
		Msg:    reason,
		Extra:  map[string]any{"link": link, "title": title},
	})
}
