package auth

import "context"

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID      int64
	Username    string
	DisplayName string
	Role        string
	TokenID     string
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored in ctx, or nil.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(contextKey{}).(*Identity)
	return id
}
