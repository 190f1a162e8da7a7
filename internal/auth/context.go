package auth

import "context"

type ctxKey string

const ContextUserKey ctxKey = "authUser"

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

// UserFromContext returns the authenticated principal, or (nil, false) for an
// anonymous request.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	if !ok || u == nil {
		return nil, false
	}
	return u, true
}
