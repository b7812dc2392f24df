package handler

import (
	"context"

	"github.com/abokiste/abokiste/internal/api/middleware"
	"github.com/abokiste/abokiste/internal/user"
)

// GetUserID retrieves the authenticated user ID from the context.
// This is a convenience wrapper around middleware.GetUserID.
func GetUserID(ctx context.Context) string {
	return middleware.GetUserID(ctx)
}

// isAdmin reports whether the authenticated caller has the admin role.
func isAdmin(ctx context.Context) bool {
	identity := middleware.GetIdentity(ctx)
	return identity != nil && identity.Role == user.RoleAdmin
}

// canAccessUser reports whether the caller may act on the given user's
// resources: admins always, everyone else only on their own.
func canAccessUser(ctx context.Context, userID string) bool {
	identity := middleware.GetIdentity(ctx)
	if identity == nil {
		return false
	}
	return identity.Role == user.RoleAdmin || identity.UserID == userID
}
