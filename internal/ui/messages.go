// Package ui provides the Bubble Tea terminal client for Courtside.
package ui

import "github.com/abelbrown/courtside/internal/client"

// Loaded is sent when a load or refresh finishes. Result is never empty:
// failures arrive as the static bundle with a warning.
type Loaded struct {
	Result  client.Result
	Refresh bool // true when triggered by the refresh key
}

// RefreshTick triggers the periodic silent reload.
type RefreshTick struct{}
