package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backoffice/internal/config"
)

var (
	_ TxBeginner = (*pgxpool.Pool)(nil)
	_ TxBeginner = (*pgx.Conn)(nil)
)

func TestMigrationFilesSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	files, err := migrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a.sql", "002_b.sql"}, files)

	_, err = migrationFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestRunMigrationsWithoutPool(t *testing.T) {
	assert.NoError(t, RunMigrations(context.Background(), nil, "does-not-matter", zap.NewNop()))
}

func TestNilHandles(t *testing.T) {
	var pg *Postgres
	assert.Nil(t, pg.PoolHandle())
	assert.Error(t, pg.Ping(context.Background()))
	assert.NotPanics(t, pg.Close)

	var r *Redis
	assert.False(t, r.Reachable())
	assert.Error(t, r.Ping(context.Background()))
}

func TestMigrationsApplyOnce(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	logger := zap.NewNop()
	pg, err := NewPostgres(ctx, config.PostgresConfig{DSN: dsn}, logger)
	require.NoError(t, err)
	t.Cleanup(pg.Close)

	require.NoError(t, RunMigrations(ctx, pg.PoolHandle(), "../../migrations", logger))
	require.NoError(t, RunMigrations(ctx, pg.PoolHandle(), "../../migrations", logger))

	var count int
	require.NoError(t, pg.Pool.QueryRow(ctx, `SELECT count(*) FROM schema_migrations WHERE version='001_init.sql'`).Scan(&count))
	assert.Equal(t, 1, count)
}
