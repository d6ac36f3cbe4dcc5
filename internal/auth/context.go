// Package auth issues and verifies session tokens and carries the
// authenticated user through request contexts.
package auth

import (
	"context"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// userIDContextKey is the context key for the authenticated user id.
	userIDContextKey contextKey = "user_id"
)

// ContextWithUserID adds the authenticated user id to the context.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext returns the authenticated user id.
// Returns empty string if not authenticated.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDContextKey).(string)
	return userID
}

// MustUserIDFromContext returns the authenticated user id.
// Panics if not present (use only when auth middleware has run).
func MustUserIDFromContext(ctx context.Context) string {
	userID := UserIDFromContext(ctx)
	if userID == "" {
		panic("user id not found - ensure auth middleware is applied")
	}
	return userID
}
