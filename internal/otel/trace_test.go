package otel

import "testing"

func TestTraceEnabledToggle(t *testing.T) {
	orig := TraceEnabled()
	defer setTraceEnabled(orig)

	setTraceEnabled(true)
	if !TraceEnabled() {
		t.Error("TraceEnabled() should be true after setTraceEnabled(true)")
	}

	restore := SetTraceEnabledForTest(false)
	if TraceEnabled() {
		t.Error("TraceEnabled() should be false after SetTraceEnabledForTest(false)")
	}
	restore()
	if !TraceEnabled() {
		t.Error("restore should bring back the previous value")
	}
}
