package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"craneorders/internal/domain/models"
)

// RequireRoles only lets through callers whose role is listed. It expects
// RequireAuth to have run first.
//
//	r.DELETE("/orders/:id", RequireRoles("admin", "super_admin"), handler)
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := strings.ToLower(strings.TrimSpace(c.GetString(CtxUserRole)))
		if role == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "no role on request")
			return
		}
		if _, ok := allowed[role]; !ok {
			abort(c, http.StatusForbidden, "forbidden", "role "+role+" is not allowed here")
			return
		}
		c.Next()
	}
}

// RequireAdmin is RequireRoles for admin and super_admin.
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(string(models.RoleAdmin), string(models.RoleSuperAdmin))
}
