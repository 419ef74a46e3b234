package app

import (
	"github.com/yungbote/echonova-backend/internal/http"
	"github.com/yungbote/echonova-backend/internal/observability"
	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:               log,
		ServiceName:       cfg.ServiceName,
		CORSOrigins:       cfg.CORSOrigins,
		Metrics:           metrics,
		HealthHandler:     handlers.Health,
		DiagnosticHandler: handlers.Diagnostic,
	})
}
