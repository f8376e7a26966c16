package espn

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/abelbrown/courtside/internal/datefmt"
	"github.com/abelbrown/courtside/internal/feeds"
	"github.com/abelbrown/courtside/internal/fetch"
)

// NewsURL is the NBA news-article endpoint.
const NewsURL = "https://site.api.espn.com/apis/site/v2/sports/basketball/nba/news"

const (
	newsCap          = 8
	newsFallbackLink = "https://www.espn.com/nba/"
)

// News reads headlines from the news API.
type News struct {
	url     string
	fetcher *fetch.Fetcher
	policy  *bluemonday.Policy
	now     func() time.Time
}

// NewNews creates the news adapter. An empty url uses NewsURL.
func NewNews(f *fetch.Fetcher, url string) *News {
	if url == "" {
		url = NewsURL
	}
	return &News{
		url:     url,
		fetcher: f,
		policy:  bluemonday.StrictPolicy(),
		now:     time.Now,
	}
}

func (n *News) Name() string {
	return "ESPN NBA"
}

func (n *News) Type() feeds.Type {
	return feeds.TypeNews
}

func (n *News) Fetch(ctx context.Context) ([]feeds.Item, error) {
	var payload newsPayload
	if err := n.fetcher.JSON(ctx, n.url, &payload); err != nil {
		return nil, fmt.Errorf("%s: %w", n.Name(), err)
	}

	now := n.now()
	ts := feeds.CaptureTime(now)
	col := feeds.NewCollection(newsCap)
	for _, a := range payload.Articles {
		if col.Full() {
			break
		}
		title := n.cleanTitle(a)
		if title == "" {
			continue
		}
		date := datefmt.Relative(now, now)
		if a.Published != "" {
			date = datefmt.RelativeString(a.Published, now)
		}
		col.Add(feeds.Item{
			Title:     title,
			Link:      articleLink(a),
			Date:      date,
			Source:    n.Name(),
			Timestamp: ts,
			Type:      feeds.TypeNews,
		})
	}
	return col.Items(), nil
}

// cleanTitle strips markup from the headline (or title) and decodes entities.
func (n *News) cleanTitle(a article) string {
	raw := a.Headline
	if strings.TrimSpace(raw) == "" {
		raw = a.Title
	}
	return feeds.NormalizeTitle(html.UnescapeString(n.policy.Sanitize(raw)))
}

func articleLink(a article) string {
	switch {
	case a.Links.Web.Href != "":
		return a.Links.Web.Href
	case a.Link != "":
		return a.Link
	default:
		return newsFallbackLink
	}
}
