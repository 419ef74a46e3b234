package app

import (
	httpH "github.com/yungbote/echonova-backend/internal/http/handlers"
	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Diagnostic *httpH.DiagnosticHandler
}

func wireHandlers(log *logger.Logger, clients Clients, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(log, clients.DB),
		Diagnostic: httpH.NewDiagnosticHandler(log, services.Diagnostic),
	}
}
