package testdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/config"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/postgres"
)

// URLEnv names the environment variable holding the test database URL.
const URLEnv = "DATABASE_URL"

// Timeout bounds connection and migration steps.
const Timeout = 30 * time.Second

var (
	schemaOnce sync.Once
	schemaErr  error
)

// DatabaseURL returns the configured test database URL, or "".
func DatabaseURL() string {
	return os.Getenv(URLEnv)
}

// Open returns a connection to the test database, skipping the test when
// none is configured. The first call in a test binary drops and recreates
// the schema.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	url := DatabaseURL()
	if url == "" {
		t.Skip(URLEnv + " not set - skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	db, err := postgres.Open(ctx, config.DatabaseConfig{
		URL:          url,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
	}, quietLogger())
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(func() { _ = db.Close() })

	schemaOnce.Do(func() {
		if schemaErr = postgres.Migrate(ctx, db, postgres.MigrateReset, quietLogger()); schemaErr != nil {
			return
		}
		schemaErr = postgres.Migrate(ctx, db, postgres.MigrateUp, quietLogger())
	})
	require.NoError(t, schemaErr, "failed to prepare test schema")

	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
