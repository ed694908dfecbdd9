package actorctx

import "context"

type ctxKey struct{}

// Identity is the authenticated caller as carried by a verified token.
// It may be stale relative to the stored user row.
type Identity struct {
	UserID int64
	Email  string
	Name   string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(ctxKey{}).(Identity)

	return v, ok && v.UserID > 0
}
