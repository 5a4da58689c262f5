package models

import "context"

type callerContextKey struct{}

// Caller is the authenticated identity behind a request. It is extracted once at
// the HTTP edge and then passed explicitly to every order operation.
type Caller struct {
	UserId  string
	IsStaff bool
}

// WithCaller attaches the authenticated caller to a context.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerContextKey{}, caller)
}

// GetCaller retrieves the caller from context; ok is false when the request was
// never authenticated.
func GetCaller(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerContextKey{}).(Caller)
	return caller, ok
}
