package userctx

import (
	"context"
	"strings"
)

// DefaultOwner is used when auth is disabled and the request carries no user.
const DefaultOwner = "default"

type contextKey string

const userIDContextKey contextKey = "user_id"

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok
}

// OwnerID returns the authenticated user, or DefaultOwner for anonymous requests.
func OwnerID(ctx context.Context) string {
	if userID, ok := GetUserID(ctx); ok && strings.TrimSpace(userID) != "" {
		return userID
	}
	return DefaultOwner
}
