package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tone-backend/internal/analysis"
	"tone-backend/internal/services/health"
	"tone-backend/internal/shared/config"
	"tone-backend/internal/shared/metrics"
	"tone-backend/internal/shared/server/middleware"
	"tone-backend/internal/shared/server/respond"
)

// RouterDeps bundles the handlers NewRouter mounts.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analysis.Handler
	Health          *health.Service
	Limiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	limiter := deps.Limiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(nil)
	}
	limit := middleware.RateLimit(middleware.RateLimitConfig{
		Rule: middleware.RateLimitRule{
			Rate:  deps.Config.RateLimitRPS,
			Burst: deps.Config.RateLimitBurst,
		},
		Limiter: limiter,
	})

	api := r.Group("/api")
	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(deps.Config.LLMProvider, deps.Config.AnalysisProfile)
	}
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})

	if deps.AnalysisHandler != nil {
		// Both paths share one bucket per client.
		deps.AnalysisHandler.RegisterRoutes(r.Group("", limit))
		deps.AnalysisHandler.RegisterRoutes(api.Group("", limit))
	}

	r.GET("/metrics", metrics.Handler())

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3001"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
