package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhms/alter/internal/analytics"
	"github.com/abhms/alter/internal/cache"
	"github.com/abhms/alter/internal/metrics"
	"github.com/abhms/alter/internal/model"
	"github.com/abhms/alter/internal/repository"
)

// Result is a serialized analytics snapshot and whether it came from the cache.
type Result struct {
	Payload  []byte
	CacheHit bool
}

// AnalyticsService serves analytics snapshots through a read-through cache.
//
// A lookup checks the result cache first. On a miss it resolves the scope to
// its aliases, loads their click records, aggregates them and stores the JSON
// for cache.SnapshotTTL. Concurrent misses for the same scope each compute
// and write; the last write wins. Any store or cache failure other than a
// miss is returned to the caller.
type AnalyticsService struct {
	aliases AliasStore
	clicks  ClickStore
	cache   SnapshotCache
	ttl     time.Duration
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(aliases AliasStore, clicks ClickStore, snapshots SnapshotCache, logger *slog.Logger, recorder metrics.Recorder) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AnalyticsService{
		aliases: aliases,
		clicks:  clicks,
		cache:   snapshots,
		ttl:     cache.SnapshotTTL,
		logger:  logger.With("component", "analytics"),
		metrics: recorder,
	}
}

// AliasAnalytics returns the snapshot for one alias.
// Returns ErrShortURLNotFound if no alias matches.
func (s *AnalyticsService) AliasAnalytics(ctx context.Context, alias string) (*Result, error) {
	return s.lookup(ctx, model.AliasScope(alias), func(ctx context.Context) (any, error) {
		a, err := s.aliases.FindByAliasOrShortURL(ctx, alias)
		if err != nil {
			if errors.Is(err, repository.ErrAliasNotFound) {
				return nil, ErrShortURLNotFound
			}
			return nil, fmt.Errorf("find alias: %w", err)
		}

		records, err := s.clicks.QueryByShortURL(ctx, a.ShortURL)
		if err != nil {
			return nil, fmt.Errorf("query clicks: %w", err)
		}

		return analytics.AggregateAlias(records), nil
	})
}

// TopicAnalytics returns the snapshot for every alias in a topic.
// Returns ErrNoURLsFound if the topic has no aliases.
func (s *AnalyticsService) TopicAnalytics(ctx context.Context, topic string) (*Result, error) {
	return s.lookup(ctx, model.TopicScope(topic), func(ctx context.Context) (any, error) {
		aliases, err := s.aliases.FindByTopic(ctx, topic)
		if err != nil {
			return nil, fmt.Errorf("find topic aliases: %w", err)
		}
		if len(aliases) == 0 {
			return nil, ErrNoURLsFound
		}

		records, err := s.clicks.QueryByShortURLs(ctx, model.ShortURLs(aliases))
		if err != nil {
			return nil, fmt.Errorf("query clicks: %w", err)
		}

		return analytics.AggregateTopic(aliases, records), nil
	})
}

// OwnerAnalytics returns the snapshot for every alias an owner created.
// Returns ErrNoURLsFound if the owner has no aliases.
func (s *AnalyticsService) OwnerAnalytics(ctx context.Context, ownerID string) (*Result, error) {
	return s.lookup(ctx, model.OwnerScope(ownerID), func(ctx context.Context) (any, error) {
		aliases, err := s.aliases.FindByOwner(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("find owner aliases: %w", err)
		}
		if len(aliases) == 0 {
			return nil, ErrNoURLsFound
		}

		records, err := s.clicks.QueryByShortURLs(ctx, model.ShortURLs(aliases))
		if err != nil {
			return nil, fmt.Errorf("query clicks: %w", err)
		}

		return analytics.AggregateOwner(aliases, records), nil
	})
}

// lookup runs the cache-aside flow for one scope. compute resolves and
// aggregates the scope; its result is marshaled and cached.
func (s *AnalyticsService) lookup(ctx context.Context, scope model.Scope, compute func(context.Context) (any, error)) (*Result, error) {
	key := scope.CacheKey()
	kind := string(scope.Kind)

	payload, err := s.cache.GetSnapshot(ctx, key)
	if err == nil {
		s.metrics.IncAnalyticsCacheHit(kind)
		s.logger.Debug("analytics_cache_hit", slog.String("scope", kind), slog.String("key", key))
		return &Result{Payload: payload, CacheHit: true}, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		return nil, fmt.Errorf("read snapshot cache: %w", err)
	}

	s.metrics.IncAnalyticsCacheMiss(kind)
	s.logger.Debug("analytics_cache_miss", slog.String("scope", kind), slog.String("key", key))

	start := time.Now()
	snapshot, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	payload, err = json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	s.metrics.ObserveAggregationDuration(kind, time.Since(start))

	if err := s.cache.SetSnapshot(ctx, key, payload, s.ttl); err != nil {
		return nil, fmt.Errorf("write snapshot cache: %w", err)
	}

	return &Result{Payload: payload, CacheHit: false}, nil
}
