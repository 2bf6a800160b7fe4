package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"devconnector/internal/core/auth"
	"devconnector/internal/core/server"
	mdw "devconnector/internal/transport/http/middleware"
	resp "devconnector/internal/transport/http/response"
)

type Options struct {
	Mode           string
	CORSOrigins    []string
	RateRPS        float64
	RateBurst      int
	MaxConcurrency int64
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

func (o *Options) defaults() {
	if o.RateRPS <= 0 {
		o.RateRPS = 200
	}
	if o.RateBurst <= 0 {
		o.RateBurst = 400
	}
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = 300
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 1 << 20
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
}

// NewAPIEngine builds the /api engine: global middleware, /health,
// /metrics, then every module under /api.
func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, o Options, mods ...Module) *gin.Engine {
	o.defaults()
	r := server.NewRouter(server.Options{Mode: o.Mode, CORSOrigins: o.CORSOrigins})

	// 中间件：指标和访问日志放在限流之前，429/503 也要被统计和记录
	r.Use(
		mdw.RequestID(),
		mdw.Recovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
		mdw.RateLimit(rate.Limit(o.RateRPS), o.RateBurst),
		mdw.ConcurrencyLimit(o.MaxConcurrency),
		mdw.MaxBodyBytes(o.MaxBodyBytes),
		mdw.Timeout(o.RequestTimeout),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())
	r.NoRoute(func(c *gin.Context) { c.JSON(http.StatusNotFound, resp.Message("Not found")) })

	// 前缀 + 鉴权分组
	api := r.Group("/api")
	private := api.Group("", mdw.AuthJWT(jwter))
	MountAll(api, private, mods...)

	return r
}
