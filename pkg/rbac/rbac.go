// Package rbac provides role-based access control middleware.
package rbac

import (
	"net/http"

	"github.com/shoestop/backend/pkg/auth"
	"github.com/shoestop/backend/pkg/response"
)

// Roles recognised across the app.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// HasRole returns middleware that allows access only to users with one of the
// given roles. Requires middleware.Auth to have already run.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFromCtx(r.Context())
			if !ok || !allowed[id.Role] {
				response.Forbidden(w, "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin is shorthand for HasRole(RoleAdmin).
func Admin(next http.Handler) http.Handler {
	return HasRole(RoleAdmin)(next)
}

// Staff is shorthand for HasRole(RoleAdmin, RoleModerator).
func Staff(next http.Handler) http.Handler {
	return HasRole(RoleAdmin, RoleModerator)(next)
}
