package common

import "context"

type contextKey int

const (
	principalKey contextKey = iota
	requestIDKey
)

// Principal identifies the authenticated caller of a request.
type Principal struct {
	UserID   uint64
	Email    string
	Username string
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// ViewerID returns the caller id, or 0 for anonymous requests.
func ViewerID(ctx context.Context) uint64 {
	p, _ := PrincipalFrom(ctx)
	return p.UserID
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
