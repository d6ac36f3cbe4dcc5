//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhms/alter/internal/testutil"
)

// ============================================================================
// Migration Integration Tests
// ============================================================================

func TestIntegrationMigration_ApplyAllTables(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	tables := []string{
		"users",
		"aliases",
		"click_records",
	}

	for _, table := range tables {
		t.Run(table, func(t *testing.T) {
			exists, err := tableExists(ctx, pool, table)
			if err != nil {
				t.Fatalf("tableExists failed: %v", err)
			}
			if !exists {
				t.Errorf("Table %q should exist after migrations", table)
			}
		})
	}
}

func TestIntegrationMigration_AliasesTableSchema(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	expectedColumns := []string{
		"id",
		"owner_id",
		"target_url",
		"short_url",
		"custom_alias",
		"topic",
		"created_at",
	}

	for _, col := range expectedColumns {
		t.Run(col, func(t *testing.T) {
			exists, err := columnExists(ctx, pool, "aliases", col)
			if err != nil {
				t.Fatalf("columnExists failed: %v", err)
			}
			if !exists {
				t.Errorf("Column %q should exist in aliases table", col)
			}
		})
	}
}

func TestIntegrationMigration_ClickRecordsTableSchema(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	expectedColumns := []string{
		"id",
		"viewer_id",
		"short_url",
		"user_agent",
		"ip_address",
		"country",
		"region",
		"city",
		"clicked_at",
	}

	for _, col := range expectedColumns {
		exists, err := columnExists(ctx, pool, "click_records", col)
		if err != nil {
			t.Fatalf("columnExists failed: %v", err)
		}
		if !exists {
			t.Errorf("Column %q should exist in click_records table", col)
		}
	}
}

func TestIntegrationMigration_AliasUniqueConstraints(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	insert := `
		INSERT INTO aliases (id, owner_id, target_url, short_url, custom_alias)
		VALUES ($1, 'owner', 'https://example.com', $2, $3)
	`
	if _, err := pool.Exec(ctx, insert, "a1", "http://s/x", "x"); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	_, err := pool.Exec(ctx, insert, "a2", "http://s/x", "y")
	if !isUniqueViolation(err) {
		t.Errorf("expected unique violation on short_url, got %v", err)
	}

	_, err = pool.Exec(ctx, insert, "a3", "http://s/z", "x")
	if !isUniqueViolation(err) {
		t.Errorf("expected unique violation on custom_alias, got %v", err)
	}
}

func TestIntegrationMigration_ClickLocationDefaults(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	_, err := pool.Exec(ctx, `
		INSERT INTO click_records (id, short_url, user_agent, ip_address, clicked_at)
		VALUES ('c1', 'http://s/x', 'ua', '127.0.0.1', NOW())
	`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	var country, region, city, viewer string
	err = pool.QueryRow(ctx, `SELECT country, region, city, viewer_id FROM click_records WHERE id = 'c1'`).
		Scan(&country, &region, &city, &viewer)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if country != "Unknown" || region != "Unknown" || city != "Unknown" {
		t.Errorf("location defaults = %q/%q/%q", country, region, city)
	}
	if viewer != "" {
		t.Errorf("viewer_id default = %q, want empty", viewer)
	}
}

func TestIntegrationMigration_RollbackAliases(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	if err := testutil.ApplyMigrationFile(ctx, pool, "000002_aliases.down.sql"); err != nil {
		t.Fatal(err)
	}

	exists, err := tableExists(ctx, pool, "aliases")
	if err != nil {
		t.Fatalf("tableExists failed: %v", err)
	}
	if exists {
		t.Error("aliases table should not exist after rollback")
	}

	if err := testutil.ApplyMigrationFile(ctx, pool, "000002_aliases.up.sql"); err != nil {
		t.Fatal(err)
	}
}

func TestIntegrationMigration_EmbeddedMigrateIsIdempotent(t *testing.T) {
	_, _ = newMigrationTestEnv(t)
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	if err := Migrate(dbURL); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	if err := Migrate(dbURL); err != nil {
		t.Fatalf("second Migrate should be a no-op: %v", err)
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

func tableExists(ctx context.Context, pool *pgxpool.Pool, tableName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables 
			WHERE table_schema = 'public' 
			AND table_name = $1
		)
	`, tableName).Scan(&exists)
	return exists, err
}

func columnExists(ctx context.Context, pool *pgxpool.Pool, tableName, columnName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.columns 
			WHERE table_schema = 'public' 
			AND table_name = $1 
			AND column_name = $2
		)
	`, tableName, columnName).Scan(&exists)
	return exists, err
}

// ============================================================================
// Test Environment Setup
// ============================================================================

func newMigrationTestEnv(t *testing.T) (context.Context, *pgxpool.Pool) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	unlock, err := testutil.AcquireDBLock(ctx, pool)
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, pool); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return ctx, pool
}
