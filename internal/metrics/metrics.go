// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Redirect metrics
	IncRedirectCacheHit()
	IncRedirectCacheMiss()
	ObserveRedirectDuration(duration time.Duration)

	// Link management metrics
	IncAliasCreated()

	// Click recording; status: "success" or "failed"
	IncClickRecorded(status string)

	// Analytics metrics; scope: "alias", "topic" or "owner"
	IncAnalyticsCacheHit(scope string)
	IncAnalyticsCacheMiss(scope string)
	ObserveAggregationDuration(scope string, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
