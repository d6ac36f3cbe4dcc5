package handler

import (
	"fmt"
	"net/http"

	"github.com/abhms/alter/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "alter_redirect_cache_hits_total %d\n", snap.RedirectCacheHits)
	writeMetric(w, "alter_redirect_cache_misses_total %d\n", snap.RedirectCacheMisses)
	writeMetric(w, "alter_redirect_duration_seconds_count %d\n", snap.RedirectDurationCount)
	writeMetric(w, "alter_redirect_duration_seconds_sum %.6f\n", float64(snap.RedirectDurationTotalNs)/1e9)

	writeMetric(w, "alter_aliases_created_total %d\n", snap.AliasesCreated)

	writeMetric(w, "alter_clicks_recorded_total{status=\"success\"} %d\n", snap.ClicksRecorded)
	writeMetric(w, "alter_clicks_recorded_total{status=\"failed\"} %d\n", snap.ClicksFailed)

	for _, scope := range metrics.Scopes {
		s := snap.Analytics[scope]
		writeMetric(w, "alter_analytics_cache_hits_total{scope=%q} %d\n", scope, s.CacheHits)
		writeMetric(w, "alter_analytics_cache_misses_total{scope=%q} %d\n", scope, s.CacheMisses)
		writeMetric(w, "alter_analytics_aggregation_seconds_count{scope=%q} %d\n", scope, s.AggregationDurationCount)
		writeMetric(w, "alter_analytics_aggregation_seconds_sum{scope=%q} %.6f\n", scope, float64(s.AggregationDurationTotalNs)/1e9)
	}
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
