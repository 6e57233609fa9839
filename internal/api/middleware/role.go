package middleware

import (
	"net/http"

	"github.com/St1cky1/taskboard/internal/api/respond"
	"github.com/St1cky1/taskboard/internal/entity"
)

// RequireRole must run after Auth.
func RequireRole(roles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFrom(r.Context())
			if p.UserID == "" {
				respond.Error(w, entity.ErrUnauthenticated)
				return
			}
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			respond.Error(w, entity.ErrForbidden)
		})
	}
}
