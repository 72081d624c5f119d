package rbac_http

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *rbac.Handler, service rbac.Service, jwtSecret string) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware(jwtSecret))
	{
		group.GET("/permissions", handler.Permissions)
		group.POST("/enforce", middleware.RBACAuthorize(service, infra.ResourceRBAC, infra.ActionManage), handler.Enforce)
	}
}
