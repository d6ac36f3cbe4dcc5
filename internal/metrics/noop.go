package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncRedirectCacheHit is a no-op.
func (n *NoopRecorder) IncRedirectCacheHit() {}

// IncRedirectCacheMiss is a no-op.
func (n *NoopRecorder) IncRedirectCacheMiss() {}

// ObserveRedirectDuration is a no-op.
func (n *NoopRecorder) ObserveRedirectDuration(duration time.Duration) {}

// IncAliasCreated is a no-op.
func (n *NoopRecorder) IncAliasCreated() {}

// IncClickRecorded is a no-op.
func (n *NoopRecorder) IncClickRecorded(status string) {}

// IncAnalyticsCacheHit is a no-op.
func (n *NoopRecorder) IncAnalyticsCacheHit(scope string) {}

// IncAnalyticsCacheMiss is a no-op.
func (n *NoopRecorder) IncAnalyticsCacheMiss(scope string) {}

// ObserveAggregationDuration is a no-op.
func (n *NoopRecorder) ObserveAggregationDuration(scope string, duration time.Duration) {}
