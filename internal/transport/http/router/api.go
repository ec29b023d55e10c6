package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"court-admin/internal/core/server"
	"court-admin/internal/service"
	mdw "court-admin/internal/transport/http/middleware"
	resp "court-admin/internal/transport/http/response"
)

type Options struct {
	Mode         string
	RPS          float64
	Burst        int
	MaxInFlight  int64
	MaxBodyBytes int64
	Timeout      time.Duration
}

func (o *Options) withDefaults() {
	if o.RPS <= 0 {
		o.RPS = 200
	}
	if o.Burst <= 0 {
		o.Burst = 400
	}
	if o.MaxInFlight <= 0 {
		o.MaxInFlight = 300
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 4 << 20
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
}

// NewAPIEngine wires the middleware chain and every /api route.
func NewAPIEngine(l *zap.Logger, svc *service.Services, o Options) *gin.Engine {
	o.withDefaults()
	r := server.Engine(l, o.Mode)

	r.Use(mdw.RequestID())
	r.Use(mdw.Limits{
		RPS:         rate.Limit(o.RPS),
		Burst:       o.Burst,
		MaxInFlight: o.MaxInFlight,
		MaxBody:     o.MaxBodyBytes,
		Timeout:     o.Timeout,
	}.Handlers()...)
	r.Use(mdw.Metrics(), mdw.AccessLog(l))

	// 健康检查 + 指标
	health := func(c *gin.Context) { resp.OK(c, http.StatusOK, "", gin.H{"status": "ok"}) }
	r.GET("/health", health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/health", health)

	authed := api.Group("")
	authed.Use(mdw.Auth(svc.Users, l))

	MountAll(api, authed,
		authRoutes{svc: svc, log: l},
		userRoutes{svc: svc, log: l},
		courtRoutes{svc: svc, log: l},
		staffRoutes{svc: svc, log: l},
		recycleRoutes{svc: svc, log: l},
		settingRoutes{svc: svc, log: l},
	)
	return r
}

// actor is the id of the authenticated caller.
func actor(c *gin.Context) string { return c.GetString(mdw.KeyUserID) }
