package design

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrValidation    = errors.New("invalid design")
	ErrOwnerNotFound = errors.New("design owner not found")
)

const (
	ItemTypeTShirt = "tshirt"
	ItemTypePants  = "pants"
)

// Design is immutable once stored. JSON names follow the column names
// because the mobile client reads them that way.
type Design struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ItemType    string    `json:"item_type"`
	Color       string    `json:"color"`
	Style       *string   `json:"style"`
	TextOverlay *string   `json:"text_overlay"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateDesignRequest is the wire body of POST /designs.
type CreateDesignRequest struct {
	ItemType string `json:"itemType" binding:"required,oneof=tshirt pants"`
	Color    string `json:"color" binding:"required"`
	Style    string `json:"style" binding:"omitempty,max=200"`
	Text     string `json:"text" binding:"omitempty,max=500"`
	ImageURL string `json:"imageUrl" binding:"omitempty,max=2048"`
}

// CreateRequest is what the stores persist. Optional fields are nil when absent.
type CreateRequest struct {
	UserID      int64
	ItemType    string
	Color       string
	Style       *string
	TextOverlay *string
	ImageURL    *string
}

func NewCreateRequest(userID int64, req CreateDesignRequest) CreateRequest {
	return CreateRequest{
		UserID:      userID,
		ItemType:    strings.TrimSpace(req.ItemType),
		Color:       strings.TrimSpace(req.Color),
		Style:       optional(req.Style),
		TextOverlay: optional(req.Text),
		ImageURL:    optional(req.ImageURL),
	}
}

func IsItemType(s string) bool {
	return s == ItemTypeTShirt || s == ItemTypePants
}

// Validate runs before any store mutation.
func (r CreateRequest) Validate() error {
	if r.UserID <= 0 {
		return fmt.Errorf("%w: owner is required", ErrValidation)
	}
	if r.ItemType == "" {
		return fmt.Errorf("%w: item type is required", ErrValidation)
	}
	if !IsItemType(r.ItemType) {
		return fmt.Errorf("%w: item type must be one of %s, %s", ErrValidation, ItemTypeTShirt, ItemTypePants)
	}
	if r.Color == "" {
		return fmt.Errorf("%w: color is required", ErrValidation)
	}
	return nil
}

// optional maps "" to nil so absent fields are stored as NULL.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
