package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/handler"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/middleware"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/metrics"
)

// Handler registers a resource's routes on a router group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type RouterConfig struct {
	RateLimit   rate.Limit
	RateBurst   int
	CORSConfig  middleware.CORSConfig
	Timeout     middleware.TimeoutConfig
	MetricsPath string
}

type Router struct {
	engine  *gin.Engine
	config  RouterConfig
	metrics *metrics.Metrics

	auth *middleware.AuthMiddleware

	authH  Handler
	userH  Handler
	groupH Handler
	habitH Handler
	notifH Handler
}

func NewRouter(
	config RouterConfig,
	m *metrics.Metrics,
	auth *middleware.AuthMiddleware,
	authH Handler,
	userH Handler,
	groupH Handler,
	habitH Handler,
	notifH Handler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:  engine,
		config:  config,
		metrics: m,
		auth:    auth,
		authH:   authH,
		userH:   userH,
		groupH:  groupH,
		habitH:  habitH,
		notifH:  notifH,
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.CORS(config.CORSConfig),
	)

	if config.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) Setup() {
	r.engine.GET("/health", handler.HealthCheck)
	if r.config.MetricsPath != "" {
		r.engine.GET(r.config.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	api := r.engine.Group("/api/v1")

	// Signup and login stay open; membership and habit mutations require
	// a valid token.
	public := api.Group("", middleware.Timeout(r.config.Timeout))
	r.authH.RegisterRoutes(public)
	r.userH.RegisterRoutes(public)

	protected := api.Group("", middleware.Timeout(r.config.Timeout), r.auth.Authenticate())
	r.groupH.RegisterRoutes(protected)
	r.habitH.RegisterRoutes(protected)

	// The SSE stream is long-lived and keyed by userId (EventSource
	// cannot set headers), so notification routes skip timeout and auth.
	r.notifH.RegisterRoutes(api)
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		r.metrics.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		r.metrics.RequestTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
