package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"internship-ats/internal/analyses"
	"internship-ats/internal/jobs"
	"internship-ats/internal/services/health"
	"internship-ats/internal/shared/config"
	"internship-ats/internal/shared/metrics"
	"internship-ats/internal/shared/server/middleware"
	"internship-ats/internal/shared/server/respond"
)

const (
	rateGroupModel  = "MODEL"
	rateGroupSearch = "SEARCH"
)

// RouterDeps holds handlers and shared dependencies for the HTTP router.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
	JobsHandler     *jobs.Handler
	Health          *health.Service
	RateLimiter     *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		metrics.Middleware(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Limiter: deps.RateLimiter,
			GroupFor: middleware.GroupByRoute(map[string]string{
				"POST /api/v1/analyses":    rateGroupModel,
				"POST /api/v1/evaluations": rateGroupModel,
				"GET /api/v1/jobs/search":  rateGroupSearch,
			}),
			Rules: map[string]middleware.RateLimitRule{
				rateGroupModel:  middleware.PerMinute(deps.Config.ModelRatePerMinute),
				rateGroupSearch: middleware.PerMinute(deps.Config.SearchRatePerMinute),
			},
		}),
	)
	r.MaxMultipartMemory = deps.Config.MaxUploadBytes

	r.GET("/metrics", metrics.Handler())

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, healthSvc.Status())
	})
	api.GET("/health/ready", func(c *gin.Context) {
		report := healthSvc.Ready(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}
	if deps.JobsHandler != nil {
		deps.JobsHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
