package user

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
	ErrValidation = errors.New("invalid user")
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	CreatedAt    time.Time `json:"createdAt"`
}

// Public is the shape returned to clients.
type Public struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Public() Public {
	return Public{ID: u.ID, Name: u.Name, Email: u.Email}
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// NormalizeEmail is the canonical form used for storage and lookups,
// which makes email matching case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateNew checks the fields a store needs before inserting a user.
func ValidateNew(name, email, passwordHash string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case NormalizeEmail(email) == "":
		return fmt.Errorf("%w: email is required", ErrValidation)
	case passwordHash == "":
		return fmt.Errorf("%w: password hash is required", ErrValidation)
	}
	return nil
}
