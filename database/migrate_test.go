package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationDir(t *testing.T) {
	dir, err := migrationDir(DialectPostgres)
	require.NoError(t, err)
	assert.Equal(t, "migrations/postgres", dir)

	dir, err = migrationDir(DialectSQLite)
	require.NoError(t, err)
	assert.Equal(t, "migrations/sqlite", dir)

	_, err = migrationDir(Dialect("mysql"))
	assert.Error(t, err)
}

func TestEmbeddedMigrations(t *testing.T) {
	for _, dir := range []string{"migrations/postgres", "migrations/sqlite"} {
		entries, err := migrations.ReadDir(dir)
		require.NoError(t, err)
		assert.NotEmpty(t, entries, dir)
	}
}

func TestMigrateDB_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, MigrateDB(ctx, db, DialectSQLite))
	// Second run is a no-op.
	require.NoError(t, MigrateDB(ctx, db, DialectSQLite))

	_, err = db.ExecContext(ctx, `INSERT INTO users (id, email) VALUES ('u1', 'u1@example.com')`)
	require.NoError(t, err)

	var role, owned string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT role, owned_resource_ids FROM users WHERE id = 'u1'`).Scan(&role, &owned))
	assert.Equal(t, "USER", role)
	assert.Equal(t, "[]", owned)
}
