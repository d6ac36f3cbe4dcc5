// Package service provides business logic for the application.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/abhms/alter/internal/cache"
	"github.com/abhms/alter/internal/geo"
	"github.com/abhms/alter/internal/metrics"
	"github.com/abhms/alter/internal/model"
	"github.com/abhms/alter/internal/repository"
)

// Alias validation regex: 3-50 chars, alphanumeric, hyphen and underscore.
var aliasRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)

const (
	maxDestinationLength = 2048
	maxTopicLength       = 64
	aliasLength          = 7
	aliasAlphabet        = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	maxAliasRetries      = 3
)

// reservedAliases would shadow fixed routes.
var reservedAliases = map[string]bool{
	"api":     true,
	"healthz": true,
	"readyz":  true,
	"metrics": true,
}

// LinkService handles alias creation, redirects and click recording.
type LinkService struct {
	aliases AliasStore
	clicks  ClickStore
	links   LinkCache
	geo     geo.Resolver
	baseURL string
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewLinkService creates a new LinkService.
func NewLinkService(aliases AliasStore, clicks ClickStore, links LinkCache, resolver geo.Resolver, baseURL string, logger *slog.Logger, recorder metrics.Recorder) *LinkService {
	if resolver == nil {
		resolver = geo.UnknownResolver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &LinkService{
		aliases: aliases,
		clicks:  clicks,
		links:   links,
		geo:     resolver,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger.With("component", "links"),
		metrics: recorder,
	}
}

// CreateShortURLInput defines input for creating a short URL.
type CreateShortURLInput struct {
	LongURL     string
	CustomAlias string
	Topic       string
	OwnerID     string
}

// CreateShortURL creates a new alias for LongURL.
// A custom alias that is taken fails with ErrAliasExists. Generated aliases
// are retried on collision.
func (s *LinkService) CreateShortURL(ctx context.Context, input CreateShortURLInput) (*model.Alias, error) {
	if input.LongURL == "" {
		return nil, ErrLongURLRequired
	}
	if err := s.validateDestination(input.LongURL); err != nil {
		return nil, err
	}

	topic := strings.TrimSpace(input.Topic)
	if len(topic) > maxTopicLength {
		return nil, ErrInvalidTopic
	}

	if input.CustomAlias != "" {
		if !aliasRegex.MatchString(input.CustomAlias) || reservedAliases[strings.ToLower(input.CustomAlias)] {
			return nil, ErrInvalidAlias
		}
		alias := s.newAlias(input, input.CustomAlias, topic)
		if err := s.create(ctx, alias); err != nil {
			return nil, err
		}
		return alias, nil
	}

	for i := 0; i < maxAliasRetries; i++ {
		alias := s.newAlias(input, generateRandomAlias(), topic)
		err := s.create(ctx, alias)
		if err == nil {
			return alias, nil
		}
		if !errors.Is(err, ErrAliasExists) {
			return nil, err
		}
	}

	return nil, errors.New("failed to generate unique alias after retries")
}

func (s *LinkService) newAlias(input CreateShortURLInput, alias, topic string) *model.Alias {
	return &model.Alias{
		ID:          model.NewID(),
		OwnerID:     input.OwnerID,
		TargetURL:   input.LongURL,
		ShortURL:    model.ShortURLFor(s.baseURL, alias),
		CustomAlias: alias,
		Topic:       topic,
		CreatedAt:   time.Now().UTC(),
	}
}

func (s *LinkService) create(ctx context.Context, alias *model.Alias) error {
	if err := s.aliases.Create(ctx, alias); err != nil {
		if errors.Is(err, repository.ErrAliasExists) {
			return ErrAliasExists
		}
		return fmt.Errorf("failed to create alias: %w", err)
	}

	s.metrics.IncAliasCreated()

	if err := s.links.SetLink(ctx, alias.CustomAlias, linkFor(alias)); err != nil {
		// Log but don't fail - the redirect path falls back to the database
		s.logger.Warn("link_cache_write_failed",
			slog.String("alias", alias.CustomAlias),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// ShortURLDetails is an alias with its live click counters.
type ShortURLDetails struct {
	Alias       *model.Alias
	TotalClicks int64
	UniqueUsers int64
}

// GetShortURL returns an alias owned by ownerID with its click counters.
// Aliases owned by someone else are reported as not found.
func (s *LinkService) GetShortURL(ctx context.Context, key, ownerID string) (*ShortURLDetails, error) {
	alias, err := s.aliases.FindByAliasOrShortURL(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrAliasNotFound) {
			return nil, ErrShortURLNotFound
		}
		return nil, fmt.Errorf("find alias: %w", err)
	}
	if alias.OwnerID != ownerID {
		return nil, ErrShortURLNotFound
	}

	filter := repository.FilterByShortURL(alias.ShortURL)

	total, err := s.clicks.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count clicks: %w", err)
	}
	unique, err := s.clicks.CountDistinctViewers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count viewers: %w", err)
	}

	return &ShortURLDetails{Alias: alias, TotalClicks: total, UniqueUsers: unique}, nil
}

// Redirect is a resolved alias.
type Redirect struct {
	TargetURL string
	// ShortURL is the short URL stored with the alias. Click records are
	// keyed on it so they keep joining to the alias if the base URL changes.
	ShortURL string
	CacheHit bool
}

// ResolveRedirect resolves an alias to its target URL.
// This is the hot path - cache first, database on miss, cache backfilled.
func (s *LinkService) ResolveRedirect(ctx context.Context, alias string) (*Redirect, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveRedirectDuration(time.Since(start))
	}()

	cached, err := s.links.GetLink(ctx, alias)
	if err == nil {
		s.metrics.IncRedirectCacheHit()
		return &Redirect{TargetURL: cached.TargetURL, ShortURL: cached.ShortURL, CacheHit: true}, nil
	}
	if errors.Is(err, cache.ErrCacheMiss) {
		s.metrics.IncRedirectCacheMiss()
	} else {
		// Redis error - fall through to DB
		s.logger.Warn("link_cache_read_failed",
			slog.String("alias", alias),
			slog.String("error", err.Error()),
		)
	}

	found, err := s.aliases.FindByAliasOrShortURL(ctx, alias)
	if err != nil {
		if errors.Is(err, repository.ErrAliasNotFound) {
			return nil, ErrShortURLNotFound
		}
		return nil, fmt.Errorf("find alias: %w", err)
	}

	if err := s.links.SetLink(ctx, alias, linkFor(found)); err != nil {
		s.logger.Warn("link_cache_write_failed",
			slog.String("alias", alias),
			slog.String("error", err.Error()),
		)
	}

	return &Redirect{TargetURL: found.TargetURL, ShortURL: found.ShortURL}, nil
}

func linkFor(alias *model.Alias) cache.Link {
	return cache.Link{TargetURL: alias.TargetURL, ShortURL: alias.ShortURL}
}

// RecordClickInput describes one redirect to record.
type RecordClickInput struct {
	Alias     string
	// ShortURL is the resolved alias's stored short URL. When empty it is
	// derived from the configured base URL.
	ShortURL  string
	ViewerID  string
	UserAgent string
	IPAddress string
}

// RecordClick appends a click record for a redirect. The location is
// resolved from the IP address.
func (s *LinkService) RecordClick(ctx context.Context, input RecordClickInput) (*model.ClickRecord, error) {
	userAgent := input.UserAgent
	if userAgent == "" {
		userAgent = model.UnknownUserAgent
	}

	shortURL := input.ShortURL
	if shortURL == "" {
		shortURL = model.ShortURLFor(s.baseURL, input.Alias)
	}

	record := &model.ClickRecord{
		ViewerID:  input.ViewerID,
		ShortURL:  shortURL,
		UserAgent: userAgent,
		IPAddress: input.IPAddress,
		Timestamp: time.Now().UTC(),
		Location:  s.geo.Lookup(input.IPAddress),
	}

	if err := s.clicks.Append(ctx, record); err != nil {
		s.metrics.IncClickRecorded("failed")
		return nil, fmt.Errorf("record click: %w", err)
	}

	s.metrics.IncClickRecorded("success")
	return record, nil
}

// BaseURL returns the configured base URL.
func (s *LinkService) BaseURL() string {
	return s.baseURL
}

// validateDestination validates a destination URL.
func (s *LinkService) validateDestination(dest string) error {
	if dest == "" {
		return ErrInvalidURL
	}

	if len(dest) > maxDestinationLength {
		return ErrURLTooLong
	}

	parsed, err := url.Parse(dest)
	if err != nil {
		return ErrInvalidURL
	}

	// Only allow http and https schemes
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidURL
	}

	// Must have a host
	if parsed.Host == "" {
		return ErrInvalidURL
	}

	return nil
}

// generateRandomAlias generates a random alias using crypto/rand.
func generateRandomAlias() string {
	b := make([]byte, aliasLength)
	for i := range b {
		idx, err := cryptoRandInt(len(aliasAlphabet))
		if err != nil {
			// Fallback (should never happen in practice)
			idx = 0
		}
		b[i] = aliasAlphabet[idx]
	}
	return string(b)
}

// cryptoRandInt returns a cryptographically secure random integer in [0, max).
func cryptoRandInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
