package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/abhms/alter/internal/model"
)

// Common errors for alias repository operations.
var (
	ErrAliasNotFound = errors.New("alias not found")
	ErrAliasExists   = errors.New("alias already exists")
)

const aliasColumns = `id, owner_id, target_url, short_url, custom_alias, topic, created_at`

// AliasRepository provides database access for aliases.
type AliasRepository struct {
	repo *Repository
}

// NewAliasRepository creates a new AliasRepository.
func NewAliasRepository(repo *Repository) *AliasRepository {
	return &AliasRepository{repo: repo}
}

// Create inserts a new alias. The unique constraints on short_url and
// custom_alias are the only guard against concurrent duplicates.
func (r *AliasRepository) Create(ctx context.Context, alias *model.Alias) error {
	query := `
		INSERT INTO aliases (` + aliasColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.repo.pool.Exec(ctx, query,
		alias.ID,
		alias.OwnerID,
		alias.TargetURL,
		alias.ShortURL,
		alias.CustomAlias,
		alias.Topic,
		alias.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAliasExists
		}
		return fmt.Errorf("failed to create alias: %w", err)
	}

	return nil
}

// FindByAliasOrShortURL retrieves the alias whose short_url or custom_alias equals key.
// This is the hot path for redirects.
func (r *AliasRepository) FindByAliasOrShortURL(ctx context.Context, key string) (*model.Alias, error) {
	query := `
		SELECT ` + aliasColumns + `
		FROM aliases
		WHERE custom_alias = $1 OR short_url = $1
		LIMIT 1
	`

	alias, err := scanAlias(r.repo.pool.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAliasNotFound
		}
		return nil, fmt.Errorf("failed to find alias: %w", err)
	}

	return alias, nil
}

// FindByTopic returns every alias in the topic, oldest first.
func (r *AliasRepository) FindByTopic(ctx context.Context, topic string) ([]*model.Alias, error) {
	query := `
		SELECT ` + aliasColumns + `
		FROM aliases
		WHERE topic = $1
		ORDER BY created_at, id
	`
	return r.list(ctx, query, topic)
}

// FindByOwner returns every alias owned by ownerID, oldest first.
func (r *AliasRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Alias, error) {
	query := `
		SELECT ` + aliasColumns + `
		FROM aliases
		WHERE owner_id = $1
		ORDER BY created_at, id
	`
	return r.list(ctx, query, ownerID)
}

func (r *AliasRepository) list(ctx context.Context, query string, arg string) ([]*model.Alias, error) {
	rows, err := r.repo.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}
	defer rows.Close()

	aliases := make([]*model.Alias, 0)
	for rows.Next() {
		alias, err := scanAlias(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alias: %w", err)
		}
		aliases = append(aliases, alias)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aliases: %w", err)
	}

	return aliases, nil
}

// scanAlias scans a single row into an Alias model.
func scanAlias(row pgx.Row) (*model.Alias, error) {
	var alias model.Alias
	err := row.Scan(
		&alias.ID,
		&alias.OwnerID,
		&alias.TargetURL,
		&alias.ShortURL,
		&alias.CustomAlias,
		&alias.Topic,
		&alias.CreatedAt,
	)
	return &alias, err
}
