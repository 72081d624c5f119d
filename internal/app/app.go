package app

import (
	"context"
	"database/sql"
	"errors"

	"go-leave/internal/config"
	"go-leave/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds the connections a process opened so main can close them.
type App struct {
	Config config.Config
	GormDB *gorm.DB
	DB     *sql.DB
	Redis  *redis.Client
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func connect(cfg config.Config, withRedis bool) (*App, error) {
	log := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return nil, err
	}
	log.Info("database connection established", zap.String("driver", cfg.Database.Driver))

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, GormDB: gormDB, DB: sqlDB}

	if withRedis && cfg.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.Database.MaxRetries)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Redis = rdb
	}

	return a, nil
}

// BuildApp connects, migrates, seeds the catalog and the administrator,
// and registers every module on router.
func BuildApp(router *gin.Engine) (*App, error) {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	a, err := connect(cfg, true)
	if err != nil {
		return nil, err
	}

	if err := Migrate(a.GormDB); err != nil {
		a.Close()
		return nil, err
	}

	if err := registerModules(context.Background(), router, a); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}
