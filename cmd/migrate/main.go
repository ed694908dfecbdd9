package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/geocoder89/designhub/internal/config"
	"github.com/geocoder89/designhub/internal/db"
	"github.com/geocoder89/designhub/internal/observability"
	"github.com/jackc/pgx/v5/stdlib"
)

const usage = `usage: migrate [up|down|status]

Applies the embedded schema migrations to the database selected by
DB_DRIVER (sqlite or postgres). The default command is "up".`

func main() {
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg := config.Load()
	log := observability.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, command, log); err != nil {
		log.Error("migrate failed", "command", command, "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, command string, log *slog.Logger) error {
	conn, closeConn, err := open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeConn()

	provider, err := db.NewMigrator(conn, cfg.DBDriver)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return err
		}
		for _, r := range results {
			log.Info("migration applied", "version", r.Source.Version, "file", r.Source.Path, "duration", r.Duration)
		}
		if len(results) == 0 {
			log.Info("schema up to date")
		}
	case "down":
		r, err := provider.Down(ctx)
		if err != nil {
			return err
		}
		log.Info("migration rolled back", "version", r.Source.Version, "file", r.Source.Path)
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			log.Info("migration", "version", s.Source.Version, "file", s.Source.Path, "state", s.State, "applied_at", s.AppliedAt)
		}
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}

	return nil
}

func open(ctx context.Context, cfg config.Config) (*sql.DB, func(), error) {
	if cfg.DBDriver == db.DriverPostgres {
		pool, err := db.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
		if err != nil {
			return nil, nil, err
		}
		conn := stdlib.OpenDBFromPool(pool)
		return conn, func() {
			_ = conn.Close()
			pool.Close()
		}, nil
	}

	conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	return conn, func() { _ = conn.Close() }, nil
}
