package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/abhms/alter/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// MigrationsDir returns the directory holding the PostgreSQL migrations.
func MigrationsDir() (string, error) {
	root, err := ProjectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "internal", "repository", "migrations", "postgres"), nil
}

// ApplyMigrationFile executes one migration file by name, e.g. "000002_aliases.down.sql".
func ApplyMigrationFile(ctx context.Context, pool *pgxpool.Pool, name string) error {
	dir, err := MigrationsDir()
	if err != nil {
		return err
	}

	sql, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	return nil
}

// ResetSchema drops every table and reapplies all up migrations.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	dir, err := MigrationsDir()
	if err != nil {
		return err
	}

	downs, err := filepath.Glob(filepath.Join(dir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("list down migrations: %w", err)
	}
	ups, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("list up migrations: %w", err)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(downs)))
	sort.Strings(ups)

	for _, path := range append(downs, ups...) {
		if err := ApplyMigrationFile(ctx, pool, filepath.Base(path)); err != nil {
			return err
		}
	}

	// golang-migrate bookkeeping is irrelevant once tables are rebuilt by hand.
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS schema_migrations"); err != nil {
		return fmt.Errorf("drop schema_migrations: %w", err)
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestAlias creates a test alias with sensible defaults.
func NewTestAlias(t testing.TB, alias, ownerID, topic string) *model.Alias {
	t.Helper()
	return &model.Alias{
		ID:          model.NewID(),
		OwnerID:     ownerID,
		TargetURL:   "https://example.com/" + alias,
		ShortURL:    model.ShortURLFor("http://localhost:8080", alias),
		CustomAlias: alias,
		Topic:       topic,
		CreatedAt:   time.Now().UTC(),
	}
}

// NewTestClickRecord creates a click record on shortURL at the given time.
func NewTestClickRecord(shortURL, viewerID, userAgent string, at time.Time) *model.ClickRecord {
	return &model.ClickRecord{
		ViewerID:  viewerID,
		ShortURL:  shortURL,
		UserAgent: userAgent,
		IPAddress: "203.0.113.10",
		Timestamp: at,
		Location:  model.UnknownLocationValue(),
	}
}

// UniqueAlias generates a unique alias for tests.
func UniqueAlias(prefix string) string {
	return strings.ToLower(fmt.Sprintf("%s%d", prefix, time.Now().UnixNano()%1_000_000_000))
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
