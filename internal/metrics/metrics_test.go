package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/abelbrown/courtside/internal/otel"
)

func TestEmitAdapterOutcomes(t *testing.T) {
	m := New()

	m.Emit(otel.Event{Kind: otel.KindAdapterComplete, Source: "NBA Official", Count: 6, Dur: time.Second})
	m.Emit(otel.Event{Kind: otel.KindAdapterComplete, Source: "NBA Official", Count: 8, Dur: time.Second})
	m.Emit(otel.Event{Kind: otel.KindAdapterError, Source: "ESPN NBA", Dur: time.Second})
	m.Emit(otel.Event{Kind: otel.KindAdapterDateError, Source: "NBA Scores"})

	if got := testutil.ToFloat64(m.AdapterRuns.WithLabelValues("NBA Official", "success")); got != 2 {
		t.Errorf("success runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.AdapterRuns.WithLabelValues("ESPN NBA", "error")); got != 1 {
		t.Errorf("error runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.DateErrors.WithLabelValues("NBA Scores")); got != 1 {
		t.Errorf("date errors = %v, want 1", got)
	}
}

func TestEmitPipelineAndHTTP(t *testing.T) {
	m := New()

	m.Emit(otel.Event{Kind: otel.KindPipelineFallback})
	m.Emit(otel.Event{Kind: otel.KindPipelineMerge, Count: 8})
	m.Emit(otel.Event{Kind: otel.KindHTTPRequest, Status: 405, Extra: map[string]any{"method": "DELETE"}})
	m.Emit(otel.Event{Kind: otel.KindStartup})

	if got := testutil.ToFloat64(m.PipelineFallback); got != 1 {
		t.Errorf("fallback = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("DELETE", "405")); got != 1 {
		t.Errorf("http requests = %v, want 1", got)
	}
}

func TestHandlerExposesNamespace(t *testing.T) {
	m := New()
	m.Emit(otel.Event{Kind: otel.KindPipelineFallback})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "courtside_pipeline_fallback_total 1") {
		t.Errorf("metrics output missing fallback counter:\n%s", body)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Error("runtime collector not registered")
	}
}
