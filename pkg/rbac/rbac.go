// Package rbac provides role-based access control middleware.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/catalogapi/pkg/middleware"
	"github.com/shashiranjanraj/catalogapi/pkg/response"
)

const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// HasRole allows the request when the token grants any of roles. It must
// run after middleware.Authenticate; a request without claims gets 401.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := middleware.ClaimsFromCtx(r.Context())
			if !ok {
				response.Unauthorized(w, "Missing bearer token")
				return
			}
			for _, role := range roles {
				if claims.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w)
		})
	}
}
