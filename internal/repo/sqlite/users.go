package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/designhub/internal/domain/user"
	"github.com/geocoder89/designhub/internal/observability"
)

type UsersRepo struct {
	db   *sql.DB
	prom *observability.Prom
	now  func() time.Time
}

func NewUsersRepo(db *sql.DB, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{db: db, prom: prom, now: time.Now}
}

// Create inserts one user; a duplicate email surfaces as user.ErrEmailTaken.
func (r *UsersRepo) Create(ctx context.Context, name, email, passwordHash string) (user.User, error) {
	if err := user.ValidateNew(name, email, passwordHash); err != nil {
		return user.User{}, err
	}

	u := user.User{
		Name:         name,
		Email:        user.NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    r.now().UTC(),
	}

	err := r.prom.ObserveDB("users.create", func() error {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO users (name, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
			u.Name, u.Email, u.PasswordHash, formatTime(u.CreatedAt),
		)
		if err != nil {
			return err
		}
		u.ID, err = res.LastInsertId()
		return err
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_email",
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`,
		user.NormalizeEmail(email),
	)
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	return r.getOne(ctx, "users.get_by_id",
		`SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`,
		id,
	)
}

func (r *UsersRepo) getOne(ctx context.Context, op, query string, arg any) (user.User, error) {
	var (
		u         user.User
		createdAt string
	)

	err := r.prom.ObserveDB(op, func() error {
		return r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &createdAt)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("%s: %w", op, err)
	}

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return user.User{}, err
	}

	return u, nil
}
