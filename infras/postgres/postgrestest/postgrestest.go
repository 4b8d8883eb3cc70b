// Package postgrestest opens the throwaway database named by DSNEnv for
// integration tests. Tests skip when it is unset.
package postgrestest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // migrate driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // migrate source
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // sql driver
	"github.com/stretchr/testify/require"
)

const DSNEnv = "SIZOPI_TEST_POSTGRES_DSN"

// lockKey serialises suites from different packages, which go test runs in
// parallel against the same database.
const lockKey = 7_210_519

// DSN returns the test database URL or skips t.
func DSN(t testing.TB) string {
	t.Helper()

	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", DSNEnv)
	}

	return dsn
}

// Open migrates the test database, holds the suite lock until t ends and
// empties tables before handing the pool over.
func Open(t testing.TB, tables ...string) *sqlx.DB {
	t.Helper()

	dsn := DSN(t)
	migrateUp(t, dsn)

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()

	lock, err := db.Connx(ctx)
	require.NoError(t, err)

	_, err = lock.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockKey)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = lock.ExecContext(ctx, `SELECT pg_advisory_unlock($1)`, lockKey)
		_ = lock.Close()
	})

	if len(tables) > 0 {
		_, err = db.Exec(`TRUNCATE ` + strings.Join(tables, ", ") + ` CASCADE`)
		require.NoError(t, err)
	}

	return db
}

func migrateUp(t testing.TB, dsn string) {
	t.Helper()

	mig, err := migrate.New("file://"+migrationsDir(), dsn)
	require.NoError(t, err)

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}

	srcErr, dbErr := mig.Close()
	require.NoError(t, srcErr)
	require.NoError(t, dbErr)
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)

	return filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations", "postgres")
}
