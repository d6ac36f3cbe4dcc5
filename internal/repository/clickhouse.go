package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/golang-migrate/migrate/v4"
	clickmigrations "github.com/golang-migrate/migrate/v4/database/clickhouse"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/abhms/alter/internal/model"
)

//go:embed migrations/clickhouse/*.sql
var clickhouseMigrationsFS embed.FS

// ClickHouseConfig holds connection settings for the ClickHouse click store.
type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
}

// ClickHouseStore stores click records in a ClickHouse MergeTree table.
type ClickHouseStore struct {
	db *sqlx.DB
}

// clickRow mirrors a click_records row for sqlx scanning.
type clickRow struct {
	ID        string    `db:"id"`
	ViewerID  string    `db:"viewer_id"`
	ShortURL  string    `db:"short_url"`
	UserAgent string    `db:"user_agent"`
	IPAddress string    `db:"ip_address"`
	Country   string    `db:"country"`
	Region    string    `db:"region"`
	City      string    `db:"city"`
	ClickedAt time.Time `db:"clicked_at"`
}

func (r clickRow) toModel() model.ClickRecord {
	return model.ClickRecord{
		ID:        r.ID,
		ViewerID:  r.ViewerID,
		ShortURL:  r.ShortURL,
		UserAgent: r.UserAgent,
		IPAddress: r.IPAddress,
		Timestamp: r.ClickedAt.UTC(),
		Location: model.Location{
			Country: r.Country,
			Region:  r.Region,
			City:    r.City,
		},
	}
}

// NewClickHouse opens a ClickHouse connection and verifies it.
func NewClickHouse(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseStore, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: 30 * time.Second,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})

	db := sqlx.NewDb(conn, "clickhouse")
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return &ClickHouseStore{db: db}, nil
}

// Migrate applies the embedded ClickHouse migrations.
func (s *ClickHouseStore) Migrate() error {
	src, err := iofs.New(clickhouseMigrationsFS, "migrations/clickhouse")
	if err != nil {
		return fmt.Errorf("load clickhouse migrations: %w", err)
	}

	driver, err := clickmigrations.WithInstance(s.db.DB, &clickmigrations.Config{})
	if err != nil {
		return fmt.Errorf("create clickhouse migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "clickhouse", driver)
	if err != nil {
		return fmt.Errorf("create clickhouse migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply clickhouse migrations: %w", err)
	}

	return nil
}

// Append inserts one click record.
func (s *ClickHouseStore) Append(ctx context.Context, record *model.ClickRecord) error {
	if err := prepareClickRecord(record); err != nil {
		return err
	}

	query := `
		INSERT INTO click_records (
			id, viewer_id, short_url, user_agent, ip_address,
			country, region, city, clicked_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
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
func (s *ClickHouseStore) QueryByShortURL(ctx context.Context, shortURL string) ([]model.ClickRecord, error) {
	return s.QueryByShortURLs(ctx, []string{shortURL})
}

// QueryByShortURLs returns every click on any of the short URLs, oldest first.
func (s *ClickHouseStore) QueryByShortURLs(ctx context.Context, shortURLs []string) ([]model.ClickRecord, error) {
	if len(shortURLs) == 0 {
		return []model.ClickRecord{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, viewer_id, short_url, user_agent, ip_address,
		       country, region, city, clicked_at
		FROM click_records
		WHERE short_url IN (?)
		ORDER BY clicked_at, id
	`, shortURLs)
	if err != nil {
		return nil, fmt.Errorf("build click query: %w", err)
	}

	var rows []clickRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query click records: %w", err)
	}

	records := make([]model.ClickRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toModel())
	}

	return records, nil
}

// Count returns the number of records matching the filter.
func (s *ClickHouseStore) Count(ctx context.Context, filter ClickFilter) (int64, error) {
	return s.count(ctx, `
		SELECT toInt64(count())
		FROM click_records
		WHERE short_url IN (?)
	`, filter)
}

// CountDistinctViewers returns the number of distinct non-empty viewer ids.
func (s *ClickHouseStore) CountDistinctViewers(ctx context.Context, filter ClickFilter) (int64, error) {
	return s.count(ctx, `
		SELECT toInt64(uniqExact(viewer_id))
		FROM click_records
		WHERE short_url IN (?) AND viewer_id != ''
	`, filter)
}

func (s *ClickHouseStore) count(ctx context.Context, query string, filter ClickFilter) (int64, error) {
	if filter.IsEmpty() {
		return 0, nil
	}

	query, args, err := sqlx.In(query, filter.ShortURLs)
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int64
	if err := s.db.GetContext(ctx, &count, s.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("count click records: %w", err)
	}

	return count, nil
}

// Ping checks ClickHouse connectivity.
func (s *ClickHouseStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the ClickHouse connection.
func (s *ClickHouseStore) Close() error {
	return s.db.Close()
}
