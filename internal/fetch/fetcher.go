// Package fetch provides the HTTP transport shared by every upstream adapter.
//
// A Fetcher carries the request profile (user agent, accept headers, timeout)
// and an outbound rate limiter. It returns parsed documents or decoded JSON and
// leaves extraction to the adapters.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// DefaultUserAgent is a desktop browser string; listing pages serve reduced
// markup to obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Accept header values per payload kind.
const (
	AcceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	AcceptJSON = "application/json"
	AcceptFeed = "application/rss+xml, application/atom+xml, application/xml, text/xml, */*"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 8 << 20

// ErrStatus is wrapped by errors for non-200 responses.
var ErrStatus = errors.New("unexpected HTTP status")

// StatusError reports a non-200 response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s (%s)", e.Code, http.StatusText(e.Code), e.URL)
}

// Unwrap lets errors.Is match ErrStatus.
func (e *StatusError) Unwrap() error {
	return ErrStatus
}

// Options configures a Fetcher.
type Options struct {
	Timeout       time.Duration // per request; zero means 15s
	UserAgent     string        // zero means DefaultUserAgent
	RatePerSecond float64       // outbound request rate; <= 0 disables limiting
	Burst         int           // limiter burst; zero means 1
}

// Fetcher performs GET requests with a fixed header profile.
type Fetcher struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter // nil when unlimited
}

// NewFetcher creates a Fetcher from opts.
func NewFetcher(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	f := &Fetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		userAgent: opts.UserAgent,
	}
	if opts.RatePerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}
	return f
}

// WithTimeout returns a copy of f whose requests use timeout. The rate limiter
// is shared with f.
func (f *Fetcher) WithTimeout(timeout time.Duration) *Fetcher {
	cp := *f
	cp.client = &http.Client{
		Timeout:   timeout,
		Transport: f.client.Transport,
	}
	return &cp
}

// Get issues a GET for url with the given Accept header and returns the open
// response. The caller must close the body. Non-200 responses are closed here
// and reported as *StatusError.
//
// The function respects context cancellation, including while waiting on the
// rate limiter.
func (f *Fetcher) Get(ctx context.Context, url, accept string) (*http.Response, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "max-age=0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	return resp, nil
}

// Document fetches an HTML page and parses it.
func (f *Fetcher) Document(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := f.Get(ctx, url, AcceptHTML)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page %s: %w", url, err)
	}
	return doc, nil
}

// JSON fetches url and decodes the body into v.
func (f *Fetcher) JSON(ctx context.Context, url string, v any) error {
	resp, err := f.Get(ctx, url, AcceptJSON)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return nil
}
