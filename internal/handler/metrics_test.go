package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abhms/alter/internal/metrics"
)

func TestMetricsHandler_Exposition(t *testing.T) {
	rec := metrics.NewInMemory()
	rec.IncRedirectCacheHit()
	rec.IncClickRecorded("success")
	rec.IncAnalyticsCacheMiss("topic")
	rec.ObserveAggregationDuration("topic", 2*time.Millisecond)

	h := NewMetricsHandler(rec)
	w := httptest.NewRecorder()
	h.Metrics(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, line := range []string{
		"alter_redirect_cache_hits_total 1",
		`alter_clicks_recorded_total{status="success"} 1`,
		`alter_analytics_cache_misses_total{scope="topic"} 1`,
		`alter_analytics_cache_hits_total{scope="alias"} 0`,
		`alter_analytics_aggregation_seconds_count{scope="topic"} 1`,
	} {
		if !strings.Contains(body, line) {
			t.Errorf("missing %q in:\n%s", line, body)
		}
	}
}

func TestMetricsHandler_NoSnapshotter(t *testing.T) {
	h := NewMetricsHandler(nil)
	w := httptest.NewRecorder()
	h.Metrics(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
}
