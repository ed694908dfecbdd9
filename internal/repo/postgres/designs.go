package postgres

import (
	"context"
	"fmt"

	"github.com/geocoder89/designhub/internal/domain/design"
	"github.com/geocoder89/designhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DesignsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewDesignsRepo(pool *pgxpool.Pool, prom *observability.Prom) *DesignsRepo {
	return &DesignsRepo{pool: pool, prom: prom}
}

const designColumns = `id, user_id, item_type, color, style, text_overlay, image_url, created_at`

func (r *DesignsRepo) Create(ctx context.Context, req design.CreateRequest) (design.Design, error) {
	if err := req.Validate(); err != nil {
		return design.Design{}, err
	}

	var d design.Design

	err := r.prom.ObserveDB("designs.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO designs (user_id, item_type, color, style, text_overlay, image_url)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+designColumns,
			req.UserID, req.ItemType, req.Color, req.Style, req.TextOverlay, req.ImageURL,
		).Scan(scanTargets(&d)...)
	})

	if err != nil {
		if IsForeignKeyViolation(err) {
			return design.Design{}, design.ErrOwnerNotFound
		}
		return design.Design{}, fmt.Errorf("insert design: %w", err)
	}

	return d, nil
}

// ListByOwner returns the owner's designs, newest first.
func (r *DesignsRepo) ListByOwner(ctx context.Context, userID int64) (designs []design.Design, err error) {
	var rows pgx.Rows

	err = r.prom.ObserveDB("designs.list_by_owner", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT `+designColumns+`
			FROM designs
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC`,
			userID,
		)
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}

	defer rows.Close()

	designs = make([]design.Design, 0)

	for rows.Next() {
		var d design.Design

		if err := rows.Scan(scanTargets(&d)...); err != nil {
			return nil, fmt.Errorf("scan design: %w", err)
		}
		designs = append(designs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}

	return designs, nil
}

func scanTargets(d *design.Design) []any {
	return []any{
		&d.ID,
		&d.UserID,
		&d.ItemType,
		&d.Color,
		&d.Style,
		&d.TextOverlay,
		&d.ImageURL,
		&d.CreatedAt,
	}
}
