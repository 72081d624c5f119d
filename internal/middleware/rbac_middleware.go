package middleware

import (
	"net/http"

	"go-leave/internal/rbac"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService is satisfied by rbac.Service.
type RBACService interface {
	Enforce(req rbac.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("role")
		if !ok {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "missing auth context", nil)
			c.Abort()
			return
		}

		roleStr, _ := role.(string)
		allowed, err := service.Enforce(rbac.EnforceRequest{
			Role:     rbac.ParseRole(roleStr),
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Internal server error", nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, apperror.CodeForbidden,
				"You do not have permission to access this resource",
				map[string]string{"required": resource + ":" + action})
			c.Abort()
			return
		}
		c.Next()
	}
}
