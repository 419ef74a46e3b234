package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/echonova-backend/internal/http/handlers"
	httpMW "github.com/yungbote/echonova-backend/internal/http/middleware"
	"github.com/yungbote/echonova-backend/internal/observability"
	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics

	DiagnosticHandler *httpH.DiagnosticHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/api/health", cfg.HealthHandler.DatabaseHealth)
	}

	// Diagnostic conversation; the /api alias is kept for older web clients.
	if cfg.DiagnosticHandler != nil {
		r.POST("/diagnostic-turn", cfg.DiagnosticHandler.Turn)
		r.POST("/api/diagnostico-ia", cfg.DiagnosticHandler.Turn)
	}

	return r
}
