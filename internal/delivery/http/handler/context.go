package handler

import (
	"context"

	"cameroonmark/internal/domain/auth"
)

// contextKey is the type for context keys
type contextKey string

// SessionContextKey is the key used to store the session snapshot in context
const SessionContextKey contextKey = "session"

// WithSession returns a copy of ctx carrying s
func WithSession(ctx context.Context, s auth.Session) context.Context {
	return context.WithValue(ctx, SessionContextKey, s)
}

// GetSessionFromContext retrieves the session snapshot from request context
func GetSessionFromContext(ctx context.Context) (auth.Session, bool) {
	s, ok := ctx.Value(SessionContextKey).(auth.Session)
	return s, ok
}
