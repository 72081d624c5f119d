package leave

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	jwtSecret string,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(jwtSecret))
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, infra.ResourceLeave, infra.ActionRead), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, infra.ResourceLeave, infra.ActionRead), handler.GetByID)
		leaves.POST("",
			middleware.RBACAuthorize(rbacService, infra.ResourceLeave, infra.ActionCreate),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		leaves.PUT("/:id", middleware.RBACAuthorize(rbacService, infra.ResourceLeave, infra.ActionUpdate), handler.Update)
		leaves.DELETE("/:id", middleware.RBACAuthorize(rbacService, infra.ResourceLeave, infra.ActionDelete), handler.Delete)

		approve := middleware.RBACAuthorize(rbacService, infra.ResourceLeave, infra.ActionApprove)
		leaves.POST("/:id/approve", approve, middleware.Idempotency(rdb), handler.Approve)
		leaves.POST("/:id/reject", approve, middleware.Idempotency(rdb), handler.Reject)
		leaves.POST("/:id/reset", approve, middleware.Idempotency(rdb), handler.Reset)

		leaves.GET("/:id/history", middleware.RBACAuthorize(rbacService, infra.ResourceLeave, infra.ActionRead), handler.History)
		leaves.GET("/:id/history/latest", middleware.RBACAuthorize(rbacService, infra.ResourceLeave, infra.ActionRead), handler.LatestHistory)
	}
}
