package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/geocoder89/designhub/internal/config"
	"github.com/geocoder89/designhub/internal/domain/user"
	"github.com/geocoder89/designhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

type TokenIssuer interface {
	Issue(u user.User) (string, error)
}

type AuthHandler struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer

	// compared against when the email is unknown so both login failures
	// cost one bcrypt comparison
	dummyOnce sync.Once
	dummyHash string
}

func NewAuthHandler(users UserStore, hasher PasswordHasher, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

type authResponse struct {
	Token string      `json:"token"`
	User  user.Public `json:"user"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req user.SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		RespondInternalErr(ctx, err, "Could not create user")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.users.Create(cctx, req.Name, req.Email, hash)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			RespondConflict(ctx, "email_taken", "Email is already in use.")
		case errors.Is(err, user.ErrValidation):
			RespondBadRequest(ctx, err.Error(), nil)
		default:
			RespondInternalErr(ctx, err, "Could not create user")
		}
		return
	}

	token, err := h.tokens.Issue(u)
	if err != nil {
		RespondInternalErr(ctx, err, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusCreated, authResponse{Token: token, User: u.Public()})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	found, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			RespondInternalErr(ctx, err, "Could not log in")
			return
		}

		h.hasher.Verify(h.unknownUserHash(), req.Password)
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	if !h.hasher.Verify(found.PasswordHash, req.Password) {
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	token, err := h.tokens.Issue(found)
	if err != nil {
		RespondInternalErr(ctx, err, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusOK, authResponse{Token: token, User: found.Public()})
}

// Me resolves the token's user id against the store so a deleted account
// stops answering even while its token is still valid.
func (h *AuthHandler) Me(ctx *gin.Context) {
	id, ok := middlewares.IdentityFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	u, err := h.users.GetByID(cctx, id.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondUnAuthorized(ctx, "unauthorized", "User no longer exists")
			return
		}
		RespondInternalErr(ctx, err, "Could not load user")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": u.Public()})
}

func (h *AuthHandler) unknownUserHash() string {
	h.dummyOnce.Do(func() {
		h.dummyHash, _ = h.hasher.Hash("designhub-unknown-user")
	})
	return h.dummyHash
}
