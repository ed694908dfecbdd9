package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/designhub/internal/domain/user"
	"github.com/golang-jwt/jwt/v5"
)

func testUser() user.User {
	return user.User{ID: 42, Name: "Ada", Email: "ada@x.com"}
}

func newManagerAt(t *testing.T, secret string, at *time.Time) *Manager {
	t.Helper()

	m, err := NewManager(secret, "HS256", WithClock(func() time.Time { return *at }))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func TestIssueAndVerify_RoundTripsIdentity(t *testing.T) {
	now := time.Now()
	m := newManagerAt(t, "test-secret", &now)

	tok, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if claims.UserID != 42 || claims.Email != "ada@x.com" || claims.Name != "Ada" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "42" {
		t.Fatalf("subject: got %q want %q", claims.Subject, "42")
	}

	ttl := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
	if ttl != TokenTTL {
		t.Fatalf("ttl: got %s want %s", ttl, TokenTTL)
	}
}

func TestVerify_SevenDayExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := issuedAt
	m := newManagerAt(t, "test-secret", &clock)

	tok, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	clock = issuedAt.Add(6 * 24 * time.Hour)
	if _, err := m.Verify(tok); err != nil {
		t.Fatalf("expected token valid at T+6d, got %v", err)
	}

	clock = issuedAt.Add(8 * 24 * time.Hour)
	_, err = m.Verify(tok)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken at T+8d, got %v", err)
	}
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expiry cause, got %v", err)
	}
}

func TestVerify_Rejects(t *testing.T) {
	now := time.Now()
	m := newManagerAt(t, "right-secret", &now)
	other := newManagerAt(t, "wrong-secret", &now)

	good, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	forged, err := other.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	hs512, err := NewManager("right-secret", "HS512")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	wrongAlg, err := hs512.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 42})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	parts := strings.Split(good, ".")
	tampered := parts[0] + ".eyJpZCI6MX0." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{name: "wrong_secret", token: forged},
		{name: "wrong_alg", token: wrongAlg},
		{name: "alg_none", token: unsigned},
		{name: "tampered_payload", token: tampered},
		{name: "garbage", token: "not.a.token"},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestNewManager_Config(t *testing.T) {
	if _, err := NewManager("", "HS256"); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewManager("s", "RS256"); err == nil {
		t.Fatalf("expected error for unsupported algorithm")
	}
	for _, alg := range []string{"", "HS256", "HS384", "HS512"} {
		if _, err := NewManager("s", alg); err != nil {
			t.Fatalf("alg %q: %v", alg, err)
		}
	}
}
