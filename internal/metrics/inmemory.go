package metrics

import (
	"sync/atomic"
	"time"
)

// Scopes tracked per analytics counter.
var Scopes = []string{"alias", "topic", "owner"}

// ScopeSnapshot captures analytics counters for one scope.
type ScopeSnapshot struct {
	CacheHits                  uint64
	CacheMisses                uint64
	AggregationDurationCount   uint64
	AggregationDurationTotalNs int64
}

// Snapshot captures current in-memory counters.
type Snapshot struct {
	RedirectCacheHits       uint64
	RedirectCacheMisses     uint64
	RedirectDurationCount   uint64
	RedirectDurationTotalNs int64
	AliasesCreated          uint64
	ClicksRecorded          uint64
	ClicksFailed            uint64
	Analytics               map[string]ScopeSnapshot
}

type scopeCounters struct {
	cacheHits                  uint64
	cacheMisses                uint64
	aggregationDurationCount   uint64
	aggregationDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests and /metrics.
type InMemoryRecorder struct {
	redirectCacheHits       uint64
	redirectCacheMisses     uint64
	redirectDurationCount   uint64
	redirectDurationTotalNs int64
	aliasesCreated          uint64
	clicksRecorded          uint64
	clicksFailed            uint64

	// fixed at construction; read concurrently without locking
	scopes map[string]*scopeCounters
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	scopes := make(map[string]*scopeCounters, len(Scopes))
	for _, s := range Scopes {
		scopes[s] = &scopeCounters{}
	}
	return &InMemoryRecorder{scopes: scopes}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	analytics := make(map[string]ScopeSnapshot, len(m.scopes))
	for name, c := range m.scopes {
		analytics[name] = ScopeSnapshot{
			CacheHits:                  atomic.LoadUint64(&c.cacheHits),
			CacheMisses:                atomic.LoadUint64(&c.cacheMisses),
			AggregationDurationCount:   atomic.LoadUint64(&c.aggregationDurationCount),
			AggregationDurationTotalNs: atomic.LoadInt64(&c.aggregationDurationTotalNs),
		}
	}

	return Snapshot{
		RedirectCacheHits:       atomic.LoadUint64(&m.redirectCacheHits),
		RedirectCacheMisses:     atomic.LoadUint64(&m.redirectCacheMisses),
		RedirectDurationCount:   atomic.LoadUint64(&m.redirectDurationCount),
		RedirectDurationTotalNs: atomic.LoadInt64(&m.redirectDurationTotalNs),
		AliasesCreated:          atomic.LoadUint64(&m.aliasesCreated),
		ClicksRecorded:          atomic.LoadUint64(&m.clicksRecorded),
		ClicksFailed:            atomic.LoadUint64(&m.clicksFailed),
		Analytics:               analytics,
	}
}

// IncRedirectCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncRedirectCacheHit() {
	atomic.AddUint64(&m.redirectCacheHits, 1)
}

// IncRedirectCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncRedirectCacheMiss() {
	atomic.AddUint64(&m.redirectCacheMisses, 1)
}

// ObserveRedirectDuration records redirect duration.
func (m *InMemoryRecorder) ObserveRedirectDuration(duration time.Duration) {
	atomic.AddUint64(&m.redirectDurationCount, 1)
	atomic.AddInt64(&m.redirectDurationTotalNs, duration.Nanoseconds())
}

// IncAliasCreated increments alias created counter.
func (m *InMemoryRecorder) IncAliasCreated() {
	atomic.AddUint64(&m.aliasesCreated, 1)
}

// IncClickRecorded counts a click append by outcome.
func (m *InMemoryRecorder) IncClickRecorded(status string) {
	if status == "success" {
		atomic.AddUint64(&m.clicksRecorded, 1)
		return
	}
	atomic.AddUint64(&m.clicksFailed, 1)
}

// IncAnalyticsCacheHit increments the result cache hit counter for scope.
func (m *InMemoryRecorder) IncAnalyticsCacheHit(scope string) {
	if c, ok := m.scopes[scope]; ok {
		atomic.AddUint64(&c.cacheHits, 1)
	}
}

// IncAnalyticsCacheMiss increments the result cache miss counter for scope.
func (m *InMemoryRecorder) IncAnalyticsCacheMiss(scope string) {
	if c, ok := m.scopes[scope]; ok {
		atomic.AddUint64(&c.cacheMisses, 1)
	}
}

// ObserveAggregationDuration records how long a snapshot took to compute.
func (m *InMemoryRecorder) ObserveAggregationDuration(scope string, duration time.Duration) {
	if c, ok := m.scopes[scope]; ok {
		atomic.AddUint64(&c.aggregationDurationCount, 1)
		atomic.AddInt64(&c.aggregationDurationTotalNs, duration.Nanoseconds())
	}
}
