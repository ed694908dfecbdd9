package observability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestClassifyDBErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"pg_unique", &pgconn.PgError{Code: "23505"}, "unique_violation"},
		{"pg_fk_wrapped", fmt.Errorf("insert design: %w", &pgconn.PgError{Code: "23503"}), "foreign_key_violation"},
		{"pg_other", &pgconn.PgError{Code: "42P01"}, "pg_42P01"},
		{"deadline", context.DeadlineExceeded, "timeout"},
		{"no_rows", fmt.Errorf("users.get_by_email: %w", sql.ErrNoRows), "not_found"},
		{"unknown", errors.New("boom"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyDBErr(tt.err); got != tt.want {
				t.Fatalf("classifyDBErr(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestObserveDB(t *testing.T) {
	var nilProm *Prom
	if err := nilProm.ObserveDB("users.create", func() error { return nil }); err != nil {
		t.Fatalf("nil receiver should just run fn: %v", err)
	}

	p := NewProm()
	boom := &pgconn.PgError{Code: "23505"}

	if err := p.ObserveDB("users.create", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("error not passed through: %v", err)
	}
	_ = p.ObserveDB("users.create", func() error { return nil })

	if got := testutil.ToFloat64(p.DbErrorsTotal.WithLabelValues("users.create", "unique_violation")); got != 1 {
		t.Fatalf("errors_total = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(p.DbQueryDuration); got != 2 {
		t.Fatalf("duration series = %d, want 2 (ok and error)", got)
	}
}

func TestObserveDB_NoRowsIsNotAnError(t *testing.T) {
	p := NewProm()

	err := p.ObserveDB("users.get_by_email", func() error {
		return fmt.Errorf("scan: %w", sql.ErrNoRows)
	})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("error not passed through: %v", err)
	}

	if got := testutil.CollectAndCount(p.DbErrorsTotal); got != 0 {
		t.Fatalf("errors_total series = %d, want 0", got)
	}
	if got := testutil.CollectAndCount(p.DbQueryDuration); got != 1 {
		t.Fatalf("duration series = %d, want 1", got)
	}
	if got := testutil.ToFloat64(p.DbErrorsTotal.WithLabelValues("users.get_by_email", "not_found")); got != 0 {
		t.Fatalf("not_found errors = %v, want 0", got)
	}
}
