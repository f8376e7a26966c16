package otel

import (
	"os"
	"sync/atomic"
)

// traceEnabled is set once at package init. Atomic for safe concurrent access
// (adapters read it from fan-out goroutines, tests write via setTraceEnabled).
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("COURTSIDE_TRACE") != "")
}

// TraceEnabled reports whether COURTSIDE_TRACE is set. Adapters check it
// before building candidate-level events.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

// setTraceEnabled overrides the traceEnabled flag for testing.
func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}

// SetTraceEnabledForTest lets tests in other packages flip tracing and
// returns a func restoring the previous value.
func SetTraceEnabledForTest(v bool) func() {
	prev := traceEnabled.Swap(v)
	return func() { traceEnabled.Store(prev) }
}
