// Package testutils provides helpers for database integration tests.
//
// Integration tests run only when the DATABASE_URL environment variable is
// set; otherwise they skip. Each test runs inside its own transaction, which
// is rolled back when the test body returns, so tests can run in parallel
// against the same database without interfering with each other and without
// manual cleanup.
package testutils

import (
	"database/sql"
	"os"
	"sync"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/lfarias/loyalty-api/migrations"
)

// migrationsRunOnce ensures migrations are only run once across all tests
var migrationsRunOnce sync.Once

// IsIntegrationTestEnvironment reports whether a test database is available.
func IsIntegrationTestEnvironment() bool {
	return os.Getenv("DATABASE_URL") != ""
}

// GetTestDB opens a connection to the test database and applies migrations.
// It skips the calling test when DATABASE_URL is not set and registers a
// cleanup that closes the connection.
func GetTestDB(t *testing.T) *sql.DB {
	t.Helper()

	if !IsIntegrationTestEnvironment() {
		t.Skip("Skipping integration test; DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", os.Getenv("DATABASE_URL"))
	require.NoError(t, err, "failed to open test database")

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	require.NoError(t, db.Ping(), "failed to ping test database")

	var migrationErr error
	migrationsRunOnce.Do(func() {
		goose.SetBaseFS(migrations.FS)
		if err := goose.SetDialect("postgres"); err != nil {
			migrationErr = err
			return
		}
		migrationErr = goose.Up(db, ".")
	})
	require.NoError(t, migrationErr, "failed to apply migrations to test database")

	return db
}

// WithTx runs the test body inside a transaction that is rolled back
// afterwards, so any rows the test creates never become visible to other
// tests.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "failed to begin test transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Logf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}
