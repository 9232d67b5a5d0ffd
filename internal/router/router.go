package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursepilot/internal/handler"
	"coursepilot/internal/metrics"
	"coursepilot/internal/middleware"
)

// Options configures the optional parts of the engine.
type Options struct {
	CORSOrigins []string
	// Verifier guards /api when set.
	Verifier middleware.TokenVerifier
	// Metrics enables request metrics and GET /metrics when set.
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(syllabusH *handler.SyllabusHandler, healthH *handler.HealthHandler, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(opts.CORSOrigins))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	api := r.Group("/api")
	if opts.Verifier != nil {
		api.Use(middleware.AuthMiddleware(opts.Verifier))
	}

	api.POST("/parse-syllabus", syllabusH.ParseSyllabus)
	api.POST("/parse-text", syllabusH.ParseText)

	syllabus := api.Group("/syllabus")
	syllabus.POST("/display", syllabusH.Display)
	syllabus.POST("/sync", syllabusH.Sync)
	syllabus.POST("/export", syllabusH.Export)

	return r
}
