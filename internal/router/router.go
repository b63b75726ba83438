package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/healthdesk/clinic-api/internal/middleware"
	"github.com/healthdesk/clinic-api/pkg/metrics"
)

// RouteRegistrar is implemented by every domain handler
type RouteRegistrar interface {
	RegisterRoutes(*gin.RouterGroup, *middleware.AuthMiddleware)
}

type Config struct {
	RateLimit      rate.Limit
	RateBurst      int
	RequestTimeout time.Duration
	CORS           middleware.CORSConfig
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	metrics *metrics.Metrics
}

// New assembles the engine with the shared middleware chain. Public routes
// (auth, health) register on the open group; everything else sits behind
// authentication.
func New(auth *middleware.AuthMiddleware, m *metrics.Metrics, config Config, public []RouteRegistrar, protected []RouteRegistrar) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{engine: engine, auth: auth, metrics: m}

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})

	engine.Use(
		middleware.Recovery(),
		middleware.Logger(),
		middleware.CORS(config.CORS),
		middleware.Timeout(config.RequestTimeout),
		limiter.RateLimit(),
		r.metricsMiddleware(),
	)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	open := engine.Group("/api/v1")
	for _, h := range public {
		h.RegisterRoutes(open, auth)
	}

	secured := engine.Group("/api/v1", auth.Authenticate())
	for _, h := range protected {
		h.RegisterRoutes(secured, auth)
	}

	return r
}

func (r *Router) Handler() http.Handler {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		r.metrics.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		r.metrics.HTTPLatency.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
