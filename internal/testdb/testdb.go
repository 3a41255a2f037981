// Package testdb provides helpers for integration tests that need a real
// postgres database. Tests obtain a migrated connection through Get and skip
// themselves when no database URL is configured, so the suite stays runnable
// without one.
package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/migrations"
)

const pingTimeout = 5 * time.Second

// goose configuration is process-global; serialize migration runs so parallel
// test packages cannot race on it.
var migrateMu sync.Mutex

// URL returns the database URL for integration tests. It checks
// TASKDECK_TEST_DB_URL first, then DATABASE_URL.
func URL() string {
	if u := os.Getenv("TASKDECK_TEST_DB_URL"); u != "" {
		return u
	}
	return os.Getenv("DATABASE_URL")
}

// Get opens a database connection for an integration test and brings the
// schema up to date. The test is skipped when no database URL is set. The
// connection is closed through t.Cleanup.
func Get(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := URL()
	if dbURL == "" {
		t.Skip("TASKDECK_TEST_DB_URL or DATABASE_URL not set, skipping integration test")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "failed to open database connection")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("warning: failed to close database connection: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "database ping failed")

	Migrate(t, db)
	return db
}

// Migrate applies the embedded migrations to the given database.
func Migrate(t *testing.T, db *sql.DB) {
	t.Helper()

	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetLogger(&gooseLogger{t: t})
	require.NoError(t, goose.SetDialect("postgres"), "failed to set goose dialect")
	goose.SetBaseFS(migrations.FS)
	require.NoError(t, goose.Up(db, "."), "failed to run migrations")
}

// gooseLogger routes goose output through the test log.
type gooseLogger struct {
	t *testing.T
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.t.Log("goose: " + strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.t.Fatal("goose: " + strings.TrimSpace(fmt.Sprintf(format, v...)))
}
