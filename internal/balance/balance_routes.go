package balance

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac/infra"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	jwtSecret string,
) {
	auth := middleware.AuthMiddleware(jwtSecret)

	balances := r.Group("/balances")
	balances.Use(auth)
	{
		balances.POST("", middleware.RBACAuthorize(rbacService, infra.ResourceBalance, infra.ActionCreate), handler.Create)
		balances.GET("/:id", middleware.RBACAuthorize(rbacService, infra.ResourceBalance, infra.ActionRead), handler.GetByID)
	}

	r.GET("/employees/:id/balances",
		auth,
		middleware.RBACAuthorize(rbacService, infra.ResourceBalance, infra.ActionRead),
		handler.ListByEmployee,
	)
}
