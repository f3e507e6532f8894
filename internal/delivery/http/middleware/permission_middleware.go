package middleware

import (
	"net/http"

	"go-lab-case-tracker/internal/service"
	"go-lab-case-tracker/pkg/response"
)

// PermissionMiddleware gates routes on permission codes. The role name comes
// from the JWT claims placed in context by AuthMiddleware; membership is
// answered by the Redis-backed cache with a database fallback.
type PermissionMiddleware struct {
	roleCache *service.RoleCacheService
}

func NewPermissionMiddleware(roleCache *service.RoleCacheService) *PermissionMiddleware {
	return &PermissionMiddleware{roleCache: roleCache}
}

// Require creates a middleware that checks the actor's role for the given
// permission code. Superuser roles pass every check.
func (m *PermissionMiddleware) Require(code string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleName, ok := GetRoleNameFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed, err := m.roleCache.HasPermission(r.Context(), roleName, code)
			if err != nil {
				response.InternalServerError(w, "Failed to evaluate permissions")
				return
			}
			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
