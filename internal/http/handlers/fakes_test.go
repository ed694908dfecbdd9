package handlers_test

import (
	"context"
	"strings"

	"github.com/geocoder89/designhub/internal/actorctx"
	"github.com/geocoder89/designhub/internal/domain/design"
	"github.com/geocoder89/designhub/internal/domain/user"
	"github.com/geocoder89/designhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test
func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsers struct {
	createFn func(ctx context.Context, name, email, passwordHash string) (user.User, error)
	byEmail  func(ctx context.Context, email string) (user.User, error)
	byID     func(ctx context.Context, id int64) (user.User, error)
}

func (f *fakeUsers) Create(ctx context.Context, name, email, passwordHash string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, name, email, passwordHash)
	}
	return user.User{ID: 1, Name: name, Email: user.NormalizeEmail(email), PasswordHash: passwordHash}, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.byEmail != nil {
		return f.byEmail(ctx, email)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (user.User, error) {
	if f.byID != nil {
		return f.byID(ctx, id)
	}
	return user.User{}, user.ErrNotFound
}

// plainHasher stores "hashed:<password>" so tests stay fast.
type plainHasher struct {
	err      error
	verified int
}

func (h *plainHasher) Hash(plain string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + plain, nil
}

func (h *plainHasher) Verify(hash, plain string) bool {
	h.verified++
	return strings.TrimPrefix(hash, "hashed:") == plain && strings.HasPrefix(hash, "hashed:")
}

type fakeTokens struct {
	err error
}

func (f fakeTokens) Issue(u user.User) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + u.Email, nil
}

type fakeDesigns struct {
	createFn func(ctx context.Context, req design.CreateRequest) (design.Design, error)
	listFn   func(ctx context.Context, userID int64) ([]design.Design, error)
}

func (f *fakeDesigns) Create(ctx context.Context, req design.CreateRequest) (design.Design, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return design.Design{}, nil
}

func (f *fakeDesigns) ListByOwner(ctx context.Context, userID int64) ([]design.Design, error) {
	if f.listFn != nil {
		return f.listFn(ctx, userID)
	}
	return []design.Design{}, nil
}

// withIdentity stands in for RequireAuth.
func withIdentity(id actorctx.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middlewares.CtxIdentity, id)
		c.Request = c.Request.WithContext(actorctx.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// small helper which returns a gin engine mounting one handler per test
func setupRouter(method, path string, h ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h...)

	return r
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
