package app

import (
	"fmt"

	"github.com/yungbote/echonova-backend/internal/platform/dbctx"
	"github.com/yungbote/echonova-backend/internal/platform/llm"
	"github.com/yungbote/echonova-backend/internal/platform/logger"
	"github.com/yungbote/echonova-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Catalog    services.CatalogService
	Providers  *llm.Selector
	Diagnostic services.DiagnosticService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, repos Repos) (Services, error) {
	log.Info("Wiring services...")

	script, err := services.LoadDiagnosticScript(log)
	if err != nil {
		return Services{}, fmt.Errorf("load diagnostic script: %w", err)
	}

	auth := services.NewAuthService(log, cfg.JWTSecret, cfg.AccessTokenTTL)
	catalog := services.NewCatalogService(log, repos.Track, clients.Cache, cfg.CatalogCacheTTL)
	providers := llm.NewSelector(cfg.LLM, nil, log)
	log.Info("language model backend configured", "backend", providers.Backend())

	diagnostic := services.NewDiagnosticService(
		log,
		auth,
		repos.Company,
		repos.DiagnosticSession,
		repos.DiagnosticReport,
		catalog,
		script,
		providers,
		dbctx.NewGormTxRunner(clients.DB),
	)

	return Services{
		Auth:       auth,
		Catalog:    catalog,
		Providers:  providers,
		Diagnostic: diagnostic,
	}, nil
}
