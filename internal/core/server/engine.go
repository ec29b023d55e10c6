// Package server owns the gin engine shell and the http.Server lifecycle.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"court-admin/internal/core/logger"
	resp "court-admin/internal/transport/http/response"
)

// Engine returns a gin engine with panic recovery and CORS for the admin
// frontend; unknown routes answer with the JSON envelope. mode may be empty
// to keep gin's current mode.
func Engine(l *zap.Logger, mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	// gin 自己的调试输出也走 zap
	gin.DefaultWriter = logger.ToWriter(l, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(l, zapcore.ErrorLevel)

	e := gin.New()
	e.Use(
		ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) { resp.Internal(c) }),
		cors.New(corsConfig()),
	)
	e.NoRoute(func(c *gin.Context) { resp.Fail(c, http.StatusNotFound, "Route not found") })
	e.NoMethod(func(c *gin.Context) { resp.Fail(c, http.StatusMethodNotAllowed, "Method not allowed") })
	return e
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	cfg.AddAllowHeaders("Authorization", "X-Request-ID")
	cfg.ExposeHeaders = []string{"X-Request-ID"}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
