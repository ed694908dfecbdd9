package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/geocoder89/designhub/internal/domain/design"
	"github.com/geocoder89/designhub/internal/observability"
)

type DesignsRepo struct {
	db   *sql.DB
	prom *observability.Prom
	now  func() time.Time
}

func NewDesignsRepo(db *sql.DB, prom *observability.Prom) *DesignsRepo {
	return &DesignsRepo{db: db, prom: prom, now: time.Now}
}

func (r *DesignsRepo) Create(ctx context.Context, req design.CreateRequest) (design.Design, error) {
	if err := req.Validate(); err != nil {
		return design.Design{}, err
	}

	d := design.Design{
		UserID:      req.UserID,
		ItemType:    req.ItemType,
		Color:       req.Color,
		Style:       req.Style,
		TextOverlay: req.TextOverlay,
		ImageURL:    req.ImageURL,
		CreatedAt:   r.now().UTC(),
	}

	err := r.prom.ObserveDB("designs.create", func() error {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO designs (user_id, item_type, color, style, text_overlay, image_url, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			d.UserID, d.ItemType, d.Color, d.Style, d.TextOverlay, d.ImageURL, formatTime(d.CreatedAt),
		)
		if err != nil {
			return err
		}
		d.ID, err = res.LastInsertId()
		return err
	})

	if err != nil {
		if IsForeignKeyViolation(err) {
			return design.Design{}, design.ErrOwnerNotFound
		}
		return design.Design{}, fmt.Errorf("insert design: %w", err)
	}

	return d, nil
}

// ListByOwner returns the owner's designs, newest first. Rows created in
// the same instant fall back to id order.
func (r *DesignsRepo) ListByOwner(ctx context.Context, userID int64) ([]design.Design, error) {
	var rows *sql.Rows

	err := r.prom.ObserveDB("designs.list_by_owner", func() error {
		var err error
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, user_id, item_type, color, style, text_overlay, image_url, created_at
			FROM designs
			WHERE user_id = ?
			ORDER BY created_at DESC, id DESC`,
			userID,
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	out := make([]design.Design, 0)

	for rows.Next() {
		var (
			d                        design.Design
			style, overlay, imageURL sql.NullString
			createdAt                string
		)

		if err := rows.Scan(&d.ID, &d.UserID, &d.ItemType, &d.Color, &style, &overlay, &imageURL, &createdAt); err != nil {
			return nil, fmt.Errorf("scan design: %w", err)
		}

		d.Style = nullable(style)
		d.TextOverlay = nullable(overlay)
		d.ImageURL = nullable(imageURL)

		createdAtTime, err := parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		d.CreatedAt = createdAtTime

		out = append(out, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}

	return out, nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
