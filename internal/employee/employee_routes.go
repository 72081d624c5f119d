package employee

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	jwtSecret string,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware(jwtSecret))
	{
		employees.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, infra.ResourceEmployee, infra.ActionRead),
			handler.GetAll,
		)

		employees.GET("/options",
			middleware.RateLimitByUser(5, 20),
			middleware.RequireRole(rbac.RoleAdmin),
			handler.GetOptions,
		)

		employees.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, infra.ResourceEmployee, infra.ActionRead),
			handler.GetByID,
		)

		employees.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, infra.ResourceEmployee, infra.ActionCreate),
			handler.Create,
		)

		employees.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, infra.ResourceEmployee, infra.ActionUpdate),
			handler.Update,
		)

		employees.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, infra.ResourceEmployee, infra.ActionDelete),
			handler.Delete,
		)
	}
}
