// Package client consumes the news endpoint on behalf of the presentation
// layer. It groups items by type, degrades to an embedded static bundle when
// the endpoint is unusable and guards against overlapping refreshes.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abelbrown/courtside/internal/feeds"
)

// Endpoint paths relative to the base URL.
const (
	newsPath    = "/api/news"
	refreshPath = "/api/refresh"
)

// maxEnvelopeBytes caps how much of a response body is decoded.
const maxEnvelopeBytes = 4 << 20

var (
	// ErrStatus is wrapped by errors for non-200 responses.
	ErrStatus = errors.New("client: unexpected HTTP status")

	// ErrUnsuccessful is returned when the envelope reports success=false.
	ErrUnsuccessful = errors.New("client: endpoint reported failure")
)

// Envelope is the union of the GET and POST response shapes.
type Envelope struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message,omitempty"`
	Count     int          `json:"count,omitempty"`
	Data      []feeds.Item `json:"data"`
	Timestamp string       `json:"timestamp,omitempty"`
	Note      string       `json:"note,omitempty"`
}

// Client talks to a news endpoint.
type Client struct {
	base string
	http *http.Client
}

// New creates a Client for the endpoint rooted at base. A zero timeout means
// 60 seconds.
func New(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// News fetches the current merged list.
func (c *Client) News(ctx context.Context) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, newsPath)
}

// Refresh asks the endpoint to rebuild its list and returns the result.
func (c *Client) Refresh(ctx context.Context) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, refreshPath)
}

func (c *Client) do(ctx context.Context, method, path string) (*Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("client: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s %s returned %d", ErrStatus, method, path, resp.StatusCode)
	}

	var env Envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxEnvelopeBytes)).Decode(&env); err != nil {
		return nil, fmt.Errorf("client: failed to decode %s response: %w", path, err)
	}
	if !env.Success {
		return &env, ErrUnsuccessful
	}
	return &env, nil
}
