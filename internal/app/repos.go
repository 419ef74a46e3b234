package app

import (
	"github.com/yungbote/echonova-backend/internal/data/repos"
	"github.com/yungbote/echonova-backend/internal/platform/dbctx"
	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

type Repos struct {
	Company           repos.CompanyRepo
	Track             repos.TrackRepo
	DiagnosticSession repos.DiagnosticSessionRepo
	DiagnosticReport  repos.DiagnosticReportRepo
}

func wireRepos(src dbctx.Source, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Company:           repos.NewCompanyRepo(src, log),
		Track:             repos.NewTrackRepo(src, log),
		DiagnosticSession: repos.NewDiagnosticSessionRepo(src, log),
		DiagnosticReport:  repos.NewDiagnosticReportRepo(src, log),
	}
}
