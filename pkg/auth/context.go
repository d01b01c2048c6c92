package auth

import (
	"context"
	"errors"
)

// UserContext is the authenticated identity attached to a request context
type UserContext struct {
	UserID   string
	Username string
}

type contextKey string

const userContextKey contextKey = "user_context"

// ErrNoUserInContext indicates the request was not authenticated
var ErrNoUserInContext = errors.New("no user in context")

// SetUserInContext attaches the authenticated user to the context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, ErrNoUserInContext
	}
	return user, nil
}
