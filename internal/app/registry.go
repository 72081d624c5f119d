package app

import (
	"context"

	"go-leave/internal/auth"
	"go-leave/internal/balance"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/leavetype"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"
	"go-leave/internal/rbac/rbac_http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func registerModules(ctx context.Context, router *gin.Engine, a *App) error {
	logger := zap.L()
	cfg := a.Config

	// --- Repositories ---
	authRepo := auth.NewRepository(a.GormDB)
	employeeRepo := employee.NewRepository(a.GormDB)
	leaveTypeRepo := leavetype.NewRepository(a.GormDB)
	balanceRepo := balance.NewRepository(a.GormDB)
	leaveRepo := leave.NewRepository(a.GormDB)
	outboxRepo := kafka.NewOutboxRepository(a.GormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, logger)

	// --- Services ---
	authService := auth.NewService(authRepo, cfg.JWTSecret, cfg.JWTTTL, logger)
	leaveTypeService := leavetype.NewService(leaveTypeRepo, a.Redis, logger)
	balanceService := balance.NewService(a.DB, balanceRepo, leaveTypeRepo, logger)
	leaveService := leave.NewService(a.DB, leaveRepo, balanceRepo, leaveTypeRepo, outboxRepo, logger)
	employeeService := employee.NewService(a.DB, employeeRepo, leaveRepo, balanceRepo, outboxRepo, a.Redis, logger)

	// --- Seed ---
	if _, err := leaveTypeService.Seed(ctx); err != nil {
		return err
	}
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if _, err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return err
		}
	}

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.JWTTTL, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService, logger)
	balanceHandler := balance.NewHandler(balanceService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	// --- Routes Registration ---
	router.Use(middleware.RequestID(), middleware.ContextLogger(logger))
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, cfg.JWTSecret)
		employee.RegisterRoutes(api, employeeHandler, rbacService, cfg.JWTSecret)
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService, cfg.JWTSecret)
		balance.RegisterRoutes(api, balanceHandler, rbacService, cfg.JWTSecret)
		leave.RegisterRoutes(api, leaveHandler, rbacService, cfg.JWTSecret, a.Redis)
		rbac_http.RegisterRoutes(api, rbacHandler, rbacService, cfg.JWTSecret)
	}

	return nil
}
