package leavetype

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac/infra"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, jwtSecret string) {
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware(jwtSecret))
	{
		types.GET("", middleware.RBACAuthorize(rbacService, infra.ResourceLeaveType, infra.ActionRead), handler.GetAll)
		types.GET("/:kind", middleware.RBACAuthorize(rbacService, infra.ResourceLeaveType, infra.ActionRead), handler.GetByKind)
	}
}
