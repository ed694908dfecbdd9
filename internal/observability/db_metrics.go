package observability

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var pgErrClasses = map[string]string{
	"23505": "unique_violation",
	"23503": "foreign_key_violation",
	"23514": "check_violation",
	"40001": "serialization_failure",
	"40P01": "deadlock",
	"57014": "query_canceled",
}

var sqliteErrClasses = map[int]string{
	sqlite3.SQLITE_CONSTRAINT_UNIQUE:     "unique_violation",
	sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY: "unique_violation",
	sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY: "foreign_key_violation",
	sqlite3.SQLITE_CONSTRAINT_CHECK:      "check_violation",
	sqlite3.SQLITE_BUSY:                  "busy",
	sqlite3.SQLITE_LOCKED:                "busy",
}

// ObserveDB times fn under a logical op name such as "users.create".
// A nil receiver just runs fn.
func (p *Prom) ObserveDB(op string, fn func() error) error {
	if p == nil {
		return fn()
	}

	start := time.Now()
	err := fn()
	elapsed := time.Since(start).Seconds()

	switch {
	case err == nil:
		p.DbQueryDuration.WithLabelValues(op, "ok").Observe(elapsed)
	case isNoRows(err):
		p.DbQueryDuration.WithLabelValues(op, "not_found").Observe(elapsed)
	default:
		p.DbErrorsTotal.WithLabelValues(op, classifyDBErr(err)).Inc()
		p.DbQueryDuration.WithLabelValues(op, "error").Observe(elapsed)
	}
	return err
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

func classifyDBErr(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if class, ok := pgErrClasses[pgErr.Code]; ok {
			return class
		}
		return "pg_" + pgErr.Code
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		if class, ok := sqliteErrClasses[liteErr.Code()]; ok {
			return class
		}
		return "sqlite_error"
	}

	switch {
	case isNoRows(err):
		return "not_found"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	case pgconn.SafeToRetry(err):
		return "connection"
	default:
		return "unknown"
	}
}
