package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_MigratesSchema(t *testing.T) {
	ctx := context.Background()

	conn, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, MigrateSQLite(ctx, conn))
	// second run is a no-op
	require.NoError(t, MigrateSQLite(ctx, conn))

	for _, table := range []string{"users", "designs"} {
		var name string
		err := conn.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
		require.Equal(t, table, name)
	}

	var fk int
	require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
	require.Equal(t, 1, fk)
}

func TestSQLiteDSN(t *testing.T) {
	require.Equal(t,
		"data.db?_pragma=foreign_keys%281%29&_pragma=busy_timeout%285000%29&_pragma=journal_mode%28WAL%29",
		sqliteDSN("data.db"),
	)
	require.Contains(t, sqliteDSN("data.db?cache=shared"), "data.db?cache=shared&_pragma=")
}
