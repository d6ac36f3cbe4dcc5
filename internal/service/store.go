package service

import (
	"context"
	"time"

	"github.com/abhms/alter/internal/auth"
	"github.com/abhms/alter/internal/cache"
	"github.com/abhms/alter/internal/model"
	"github.com/abhms/alter/internal/repository"
)

//go:generate mockgen -source=store.go -destination=mocks/store.go -package=mocks

// AliasStore persists aliases. Implemented by repository.AliasRepository.
type AliasStore interface {
	Create(ctx context.Context, alias *model.Alias) error
	FindByAliasOrShortURL(ctx context.Context, key string) (*model.Alias, error)
	FindByTopic(ctx context.Context, topic string) ([]*model.Alias, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*model.Alias, error)
}

// ClickStore persists click records. Implemented by
// repository.ClickRecordRepository and repository.ClickHouseStore.
type ClickStore interface {
	Append(ctx context.Context, record *model.ClickRecord) error
	QueryByShortURL(ctx context.Context, shortURL string) ([]model.ClickRecord, error)
	QueryByShortURLs(ctx context.Context, shortURLs []string) ([]model.ClickRecord, error)
	Count(ctx context.Context, filter repository.ClickFilter) (int64, error)
	CountDistinctViewers(ctx context.Context, filter repository.ClickFilter) (int64, error)
}

// SnapshotCache stores serialized analytics snapshots.
// GetSnapshot returns cache.ErrCacheMiss when the key is absent.
type SnapshotCache interface {
	GetSnapshot(ctx context.Context, key string) ([]byte, error)
	SetSnapshot(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// LinkCache stores resolved aliases for redirects.
// GetLink returns cache.ErrCacheMiss when the alias is absent.
type LinkCache interface {
	GetLink(ctx context.Context, alias string) (*cache.Link, error)
	SetLink(ctx context.Context, alias string, link cache.Link) error
}

// UserStore persists users. Implemented by repository.Repository.
type UserStore interface {
	GetOrCreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// IdentityVerifier validates third-party sign-in tokens.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*auth.GoogleIdentity, error)
}

// SessionTokens issues and verifies local session tokens.
type SessionTokens interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}
