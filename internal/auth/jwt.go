package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/geocoder89/designhub/internal/domain/user"
	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is fixed; an expired token forces a new login.
const TokenTTL = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	now    func() time.Time
}

type Option func(*Manager)

// WithClock replaces time.Now for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager builds a token manager for one of HS256, HS384 or HS512.
func NewManager(secret string, alg string, opts ...Option) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}

	method, err := signingMethod(alg)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		secret: []byte(secret),
		method: method,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

func signingMethod(alg string) (*jwt.SigningMethodHMAC, error) {
	switch alg {
	case "", "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported jwt algorithm %q", alg)
	}
}

// Issue signs the identity claims of u with a 7 day expiry.
func (m *Manager) Issue(u user.User) (string, error) {
	now := m.now().UTC()

	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			Subject:   strconv.FormatInt(u.ID, 10),
		},
	}

	token := jwt.NewWithClaims(m.method, claims)
	return token.SignedString(m.secret)
}

// Verify checks signature, algorithm and expiry. Every failure wraps ErrInvalidToken.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.UserID <= 0 {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}

	return claims, nil
}
