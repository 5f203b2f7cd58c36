// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/jvidalgz/go-gympulse/internal/domain"
	"github.com/jvidalgz/go-gympulse/internal/services/user_services"
)

// NewJWTMiddleware validates the Authorization bearer token and places
// the resolved user in the request context. Handlers behind it can
// assume an authenticated identity.
func NewJWTMiddleware(authService *user_services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "missing bearer token")
				return
			}

			userID, err := authService.ValidateJWTToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				log.Printf("[AuthMiddleware] Invalid token: %v", err)
				unauthorized(w, "invalid token")
				return
			}

			user, err := authService.CurrentUser(r.Context(), userID)
			if err != nil {
				// Token outlived its account.
				log.Printf("[AuthMiddleware] Could not resolve user %d from token: %v", userID, err)
				unauthorized(w, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser fetches the authenticated user the JWT middleware stored
// in the context. The second return is false on routes that skipped
// the middleware.
func CurrentUser(r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(UserKey).(*domain.User)
	return user, ok && user != nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
