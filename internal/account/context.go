package account

import "context"

// ctxKey is an unexported type for this package's context keys.
type ctxKey struct{}

// NewContext returns ctx with the authenticated account attached.
func NewContext(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the authenticated account attached by the auth gate,
// or nil if the request was not authenticated.
func FromContext(ctx context.Context) *User {
	u, _ := ctx.Value(ctxKey{}).(*User)
	return u
}
