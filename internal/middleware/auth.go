package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/savetogether/backend/internal/auth"
	"github.com/savetogether/backend/internal/http/respond"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Auth validates the Bearer token on every request and stores the user ID
// in the request context. Requests without a valid token get a 401.
func Auth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respond.Error(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
				return
			}
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "authorization header must use the Bearer scheme")
				return
			}

			claims, err := tokens.Validate(tokenString)
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
				return
			}
			userID, err := claims.UserID()
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the authenticated user's ID from the context, or 0 when
// the request did not pass through Auth.
func GetUserID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}
