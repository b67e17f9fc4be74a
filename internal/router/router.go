package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medinfo/medinfo-api/internal/config"
	authhandler "github.com/medinfo/medinfo-api/internal/handler/auth"
	drughandler "github.com/medinfo/medinfo-api/internal/handler/drug"
	healthhandler "github.com/medinfo/medinfo-api/internal/handler/health"
	"github.com/medinfo/medinfo-api/internal/middleware"
	"github.com/medinfo/medinfo-api/pkg/logger"
)

type Handlers struct {
	Auth   *authhandler.Handler
	Drug   *drughandler.Handler
	Health *healthhandler.Handler
}

// New assembles the gin engine: global middleware, public auth and health
// routes, and the authenticated drug resolution surface under /api/v1.
func New(cfg *config.Config, log *logger.Logger, authMW *middleware.AuthMiddleware, h Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())
	r.Use(limiter.Limit())
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	r.Use(httpMetrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h.Health.RegisterRoutes(&r.RouterGroup)

	v1 := r.Group("/api/v1")
	h.Auth.RegisterRoutes(v1)

	authed := v1.Group("")
	authed.Use(authMW.Authenticate())
	h.Drug.RegisterRoutes(authed)

	return r
}

func httpMetrics() gin.HandlerFunc {
	requests := promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medinfo",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})

	latency := promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "medinfo",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and path.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		requests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		latency.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
