package repos

import (
	"github.com/yungbote/echonova-backend/internal/data/repos/diagnostic"
	"github.com/yungbote/echonova-backend/internal/platform/dbctx"
	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

type CompanyRepo = diagnostic.CompanyRepo
type TrackRepo = diagnostic.TrackRepo
type DiagnosticSessionRepo = diagnostic.SessionRepo
type DiagnosticReportRepo = diagnostic.ReportRepo

func NewCompanyRepo(db dbctx.Source, baseLog *logger.Logger) CompanyRepo {
	return diagnostic.NewCompanyRepo(db, baseLog)
}
func NewTrackRepo(db dbctx.Source, baseLog *logger.Logger) TrackRepo {
	return diagnostic.NewTrackRepo(db, baseLog)
}

func NewDiagnosticSessionRepo(db dbctx.Source, baseLog *logger.Logger) DiagnosticSessionRepo {
	return diagnostic.NewSessionRepo(db, baseLog)
}
func NewDiagnosticReportRepo(db dbctx.Source, baseLog *logger.Logger) DiagnosticReportRepo {
	return diagnostic.NewReportRepo(db, baseLog)
}
