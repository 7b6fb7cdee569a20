package http

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"loanflow/internal/adapter/middleware"
)

type RouterDeps struct {
	Health  *Handler
	Loans   *LoanHandler
	Reviews *ReviewHandler

	Redis       *redis.Client
	IdempTTL    time.Duration
	BodyLimit   string
	Managers    map[string]string
	UploadDir   string
	UploadsPath string
	Log         *zap.Logger
}

// Register mounts every route on e and installs the validator.
func Register(e *echo.Echo, d RouterDeps) {
	e.Validator = NewValidator()
	if d.BodyLimit != "" {
		e.Use(echomw.BodyLimit(d.BodyLimit))
	}

	e.GET("/health", d.Health.Health)
	if d.UploadDir != "" {
		e.Static(d.UploadsPath, d.UploadDir)
	}

	api := e.Group("/api", middleware.Identity(), middleware.Idempotency(d.Redis, d.IdempTTL, d.Log))
	api.POST("/loans", d.Loans.Apply)
	api.GET("/loans", d.Loans.List)
	api.GET("/loans/:id", d.Loans.Get)
	api.POST("/loans/:id/withdraw", d.Loans.Withdraw)
	api.POST("/loans/:id/pay", d.Loans.Pay)

	mgr := e.Group("/manager", middleware.ManagerAuth(d.Managers))
	mgr.GET("/loans", d.Reviews.List)
	mgr.GET("/loans/stats", d.Reviews.Stats)
	mgr.PATCH("/loans/:id/status", d.Reviews.SetStatus)
	mgr.DELETE("/loans/:id", d.Reviews.Delete)
}
