package main

import (
	"time"

	"go-leave/internal/app"
	"go-leave/internal/bootstrap"
	"go-leave/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()
	r := gin.Default()

	a, err := app.BuildApp(r)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}
	defer a.Close()

	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         a.Config.Port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		bootstrap.NewStdoutAuditLogger(logger),
	)
}
