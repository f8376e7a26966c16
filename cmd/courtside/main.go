// Command courtside aggregates NBA news, scores and schedules and serves them
// as one JSON feed.
//
// Usage:
//
//	courtside serve             Run the HTTP endpoint
//	courtside fetch             Run the pipeline once, print JSON
//	courtside watch             Terminal client for a running endpoint
//	courtside events            JSONL event log viewer
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
