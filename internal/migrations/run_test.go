package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func getTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})
	return db
}

func migrationsPath(t *testing.T) string {
	path, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	return path
}

func TestRunMigrations(t *testing.T) {
	db := getTestDB(t)
	require.NoError(t, Run(db, migrationsPath(t)))

	tables := []string{
		"announcements", "companies", "payments", "subscriptions", "match_feedback", "feedback",
		"notification_preferences", "guest_leads", "guest_matches", "newsletter_subscribers",
		"search_queries", "saved_announcements", "business_plans",
	}
	for _, table := range tables {
		var exists bool
		err := db.QueryRow(`
			SELECT EXISTS (
				SELECT 1 FROM information_schema.tables
				WHERE table_schema = 'public' AND table_name = $1
			)`, table).Scan(&exists)
		require.NoError(t, err)
		require.Truef(t, exists, "table %s should exist", table)
	}

	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM pg_indexes
			WHERE schemaname = 'public' AND indexname = 'idx_announcements_category_status'
		)`).Scan(&exists)
	require.NoError(t, err)
	require.True(t, exists, "index should exist")
}

func TestMigrationIdempotency(t *testing.T) {
	db := getTestDB(t)
	path := migrationsPath(t)

	require.NoError(t, Run(db, path))
	require.NoError(t, Run(db, path), "running migrations twice should not fail")
}
