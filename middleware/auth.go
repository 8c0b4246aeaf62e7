package middleware

import (
	"context"
	"errors"
	"net/http"
)

type contextKey string

const userContextKey contextKey = "userID"

// UserIDHeader carries the caller reference set by the upstream identity
// provider. The engine never authenticates users itself; mutations are
// gated by the per-tournament admin code instead.
const UserIDHeader = "X-User-Id"

var ErrNoUserInContext = errors.New("user id not found in request context")

// RequireUser rejects requests without a caller reference.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserIDHeader)
		if userID == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"User ID required"}`))
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userContextKey).(string)
	if !ok || userID == "" {
		return "", ErrNoUserInContext
	}
	return userID, nil
}
