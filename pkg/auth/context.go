package auth

import "context"

type identityKey struct{}

// Identity is the authenticated principal stored in the request context by
// the auth middleware.
type Identity struct {
	UserID string
	Role   string
}

// WithIdentity stores the identity in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromCtx returns the identity injected by the auth middleware.
func IdentityFromCtx(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// UserIDFromCtx returns the authenticated user's ID, false when anonymous.
func UserIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := IdentityFromCtx(ctx)
	return id.UserID, ok && id.UserID != ""
}
