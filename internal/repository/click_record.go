package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/abhms/alter/internal/analytics"
	"github.com/abhms/alter/internal/model"
)

// ClickFilter selects click records by short URL.
// An empty filter matches nothing.
type ClickFilter struct {
	ShortURLs []string
}

// FilterByShortURL returns a filter matching a single short URL.
func FilterByShortURL(shortURL string) ClickFilter {
	return ClickFilter{ShortURLs: []string{shortURL}}
}

// IsEmpty reports whether the filter can match no records.
func (f ClickFilter) IsEmpty() bool {
	return len(f.ShortURLs) == 0
}

// prepareClickRecord validates a record and fills the fields the store owns.
func prepareClickRecord(record *model.ClickRecord) error {
	if err := analytics.ValidateClickRecord(record); err != nil {
		return err
	}
	if record.ID == "" {
		record.ID = model.NewID()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	record.Timestamp = record.Timestamp.UTC()
	record.Location = record.Location.WithDefaults()
	return nil
}

// ClickRecordRepository stores click records in PostgreSQL.
type ClickRecordRepository struct {
	repo *Repository
}

// NewClickRecordRepository creates a new ClickRecordRepository.
func NewClickRecordRepository(repo *Repository) *ClickRecordRepository {
	return &ClickRecordRepository{repo: repo}
}

// Append inserts one click record.
func (r *ClickRecordRepository) Append(ctx context.Context, record *model.ClickRecord) error {
	if err := prepareClickRecord(record); err != nil {
		return err
	}

	query := `
		INSERT INTO click_records (
			id, viewer_id, short_url, user_agent, ip_address,
			country, region, city, clicked_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.repo.pool.Exec(ctx, query,
		record.ID,
		record.ViewerID,
		record.ShortURL,
		record.UserAgent,
		record.IPAddress,
		record.Location.Country,
		record.Location.Region,
		record.Location.City,
		record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append click record: %w", err)
	}

	return nil
}

// QueryByShortURL returns every click on one short URL, oldest first.
func (r *ClickRecordRepository) QueryByShortURL(ctx context.Context, shortURL string) ([]model.ClickRecord, error) {
	return r.QueryByShortURLs(ctx, []string{shortURL})
}

// QueryByShortURLs returns every click on any of the short URLs, oldest first.
func (r *ClickRecordRepository) QueryByShortURLs(ctx context.Context, shortURLs []string) ([]model.ClickRecord, error) {
	if len(shortURLs) == 0 {
		return []model.ClickRecord{}, nil
	}

	query := `
		SELECT id, viewer_id, short_url, user_agent, ip_address,
		       country, region, city, clicked_at
		FROM click_records
		WHERE short_url = ANY($1)
		ORDER BY clicked_at, id
	`

	rows, err := r.repo.pool.Query(ctx, query, shortURLs)
	if err != nil {
		return nil, fmt.Errorf("query click records: %w", err)
	}
	defer rows.Close()

	records := make([]model.ClickRecord, 0)
	for rows.Next() {
		record, err := scanClickRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan click record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate click records: %w", err)
	}

	return records, nil
}

// Count returns the number of records matching the filter.
func (r *ClickRecordRepository) Count(ctx context.Context, filter ClickFilter) (int64, error) {
	if filter.IsEmpty() {
		return 0, nil
	}

	query := `SELECT COUNT(*) FROM click_records WHERE short_url = ANY($1)`

	var count int64
	if err := r.repo.pool.QueryRow(ctx, query, filter.ShortURLs).Scan(&count); err != nil {
		return 0, fmt.Errorf("count click records: %w", err)
	}

	return count, nil
}

// CountDistinctViewers returns the number of distinct non-empty viewer ids
// among records matching the filter.
func (r *ClickRecordRepository) CountDistinctViewers(ctx context.Context, filter ClickFilter) (int64, error) {
	if filter.IsEmpty() {
		return 0, nil
	}

	query := `
		SELECT COUNT(DISTINCT viewer_id)
		FROM click_records
		WHERE short_url = ANY($1) AND viewer_id <> ''
	`

	var count int64
	if err := r.repo.pool.QueryRow(ctx, query, filter.ShortURLs).Scan(&count); err != nil {
		return 0, fmt.Errorf("count distinct viewers: %w", err)
	}

	return count, nil
}

// scanClickRecord scans a row from pgx.Rows into a ClickRecord.
func scanClickRecord(rows pgx.Rows) (model.ClickRecord, error) {
	var record model.ClickRecord
	err := rows.Scan(
		&record.ID,
		&record.ViewerID,
		&record.ShortURL,
		&record.UserAgent,
		&record.IPAddress,
		&record.Location.Country,
		&record.Location.Region,
		&record.Location.City,
		&record.Timestamp,
	)
	record.Timestamp = record.Timestamp.UTC()
	return record, err
}
