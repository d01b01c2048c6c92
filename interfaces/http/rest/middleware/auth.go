package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"qaforum/pkg/auth"
	"qaforum/pkg/common"
)

// Authenticate creates a middleware that requires a valid bearer token and
// attaches the authenticated identity to the request context
func Authenticate(validator *auth.JWTValidator, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := validateRequest(w, r, validator, logger)
			if !ok {
				return
			}

			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				UserID:   claims.UserID,
				Username: claims.Username,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthenticate attaches the identity when a valid bearer token is
// present but lets anonymous requests through. Used on read endpoints that
// personalize their response for signed-in users.
func OptionalAuthenticate(validator *auth.JWTValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				UserID:   claims.UserID,
				Username: claims.Username,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validateRequest(w http.ResponseWriter, r *http.Request, validator *auth.JWTValidator, logger *zap.Logger) (*auth.Claims, bool) {
	token := extractBearerToken(r)
	if token == "" {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization header")
		return nil, false
	}

	claims, err := validator.ValidateToken(token)
	if err != nil {
		logger.Debug("Token validation failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		message := "invalid token"
		if err == auth.ErrExpiredToken {
			message = "token has expired"
		}
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
		return nil, false
	}

	return claims, true
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
