// File: internal/middleware/require_role.go
package middleware

import (
	"encoding/json"
	"log"
	"net/http"
)

// RequireAdmin gates a route to admin users. It MUST run after the JWT
// middleware, which puts the resolved user in the context.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			log.Printf("[AdminMiddleware] Forbidden: no authenticated user in context for %s", r.URL.Path)
			forbidden(w)
			return
		}

		if !user.IsAdmin() {
			log.Printf("[AdminMiddleware] FORBIDDEN: user %d (role %s) attempted admin route %s",
				user.ID, user.Role, r.URL.Path)
			forbidden(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "you do not have permission to access this resource",
	})
}
