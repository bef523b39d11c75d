package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/medleyhq/medley/internal/auth"
	"github.com/medleyhq/medley/internal/logger"
)

type ctxKey int

const userKey ctxKey = iota

// UserFromContext returns the authenticated username set by
// RequireUser, or "" when the request was not authenticated.
func UserFromContext(ctx context.Context) string {
	u, _ := ctx.Value(userKey).(string)
	return u
}

// RequireUser rejects requests without a valid Bearer token and binds
// the token's username into the request context. When the route
// carries a {username} URL parameter it must match the token's
// subject (case-insensitive): one user's token never reaches another
// user's collection.
func RequireUser(tokens *auth.TokenIssuer, loggerClient logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenStr == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Verify(tokenStr)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			if param := chi.URLParam(r, "username"); param != "" && !strings.EqualFold(param, claims.Username) {
				loggerClient.Warn("token/path user mismatch",
					logger.String("token_user", claims.Username),
					logger.String("path_user", param))
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
