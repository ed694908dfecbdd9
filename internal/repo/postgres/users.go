package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/designhub/internal/domain/user"
	"github.com/geocoder89/designhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

// Create inserts one user. The unique index on email settles concurrent
// signups: exactly one insert wins and the rest get user.ErrEmailTaken.
func (r *UsersRepo) Create(ctx context.Context, name, email, passwordHash string) (user.User, error) {
	if err := user.ValidateNew(name, email, passwordHash); err != nil {
		return user.User{}, err
	}

	u := user.User{
		Name:         name,
		Email:        user.NormalizeEmail(email),
		PasswordHash: passwordHash,
	}

	err := r.prom.ObserveDB("users.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO users (name, email, password_hash)
			VALUES ($1, $2, $3)
			RETURNING id, created_at`,
			u.Name, u.Email, u.PasswordHash,
		).Scan(&u.ID, &u.CreatedAt)
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
		`SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE email = $1`,
		user.NormalizeEmail(email),
	)
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	return r.getOne(ctx, "users.get_by_id",
		`SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE id = $1`,
		id,
	)
}

func (r *UsersRepo) getOne(ctx context.Context, op, query string, arg any) (user.User, error) {
	var u user.User

	err := r.prom.ObserveDB(op, func() error {
		return r.pool.QueryRow(ctx, query, arg).Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.PasswordHash,
			&u.CreatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
