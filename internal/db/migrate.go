package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// MigrateSQLite applies the embedded sqlite migrations.
func MigrateSQLite(ctx context.Context, conn *sql.DB) error {
	return migrate(ctx, conn, DriverSQLite)
}

// MigratePostgres applies the embedded postgres migrations through a
// database/sql view of the pool.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	conn := stdlib.OpenDBFromPool(pool)
	defer conn.Close()

	return migrate(ctx, conn, DriverPostgres)
}

// NewMigrator returns a goose provider over the embedded migrations for
// driver, for callers that need more than "up".
func NewMigrator(conn *sql.DB, driver string) (*goose.Provider, error) {
	var (
		dialect goose.Dialect
		dir     string
	)

	switch driver {
	case DriverSQLite:
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite"
	case DriverPostgres:
		dialect, dir = goose.DialectPostgres, "migrations/postgres"
	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}

	sub, err := fs.Sub(migrations, dir)
	if err != nil {
		return nil, fmt.Errorf("migrations dir %s: %w", dir, err)
	}

	provider, err := goose.NewProvider(dialect, conn, sub)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}

	return provider, nil
}

func migrate(ctx context.Context, conn *sql.DB, driver string) error {
	provider, err := NewMigrator(conn, driver)
	if err != nil {
		return err
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
