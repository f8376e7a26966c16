package server

import (
	"github.com/abelbrown/courtside/internal/feeds"
	"github.com/abelbrown/courtside/internal/otel"
)

// newsResponse is the GET envelope.
type newsResponse struct {
	Success   bool         `json:"success"`
	Data      []feeds.Item `json:"data"`
	Timestamp string       `json:"timestamp"`
}

// refreshResponse is the POST envelope.
type refreshResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Count   int          `json:"count"`
	Data    []feeds.Item `json:"data"`
}

// fallbackResponse is served when handling fails.
type fallbackResponse struct {
	Success   bool         `json:"success"`
	Data      []feeds.Item `json:"data"`
	Timestamp string       `json:"timestamp"`
	Note      string       `json:"note"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type eventsResponse struct {
	Success bool         `json:"success"`
	Count   int          `json:"count"`
	Data    []otel.Event `json:"data"`
}
