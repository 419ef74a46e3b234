package diagnostic

import (
	"fmt"

	"github.com/google/uuid"

	types "github.com/yungbote/echonova-backend/internal/domain"
	"github.com/yungbote/echonova-backend/internal/platform/dbctx"
	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

type ReportRepo interface {
	Create(dbc dbctx.Context, rep *types.DiagnosticReport) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.DiagnosticReport, error)
	ListBySession(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.DiagnosticReport, error)
}

type reportRepo struct {
	db  dbctx.Source
	log *logger.Logger
}

func NewReportRepo(db dbctx.Source, log *logger.Logger) ReportRepo {
	return &reportRepo{db: db, log: log.With("repo", "DiagnosticReportRepo")}
}

func (r *reportRepo) Create(dbc dbctx.Context, rep *types.DiagnosticReport) error {
	if rep == nil {
		return fmt.Errorf("%w: nil report", types.ErrInvalidDocument)
	}
	txx, err := dbc.Handle(r.db)
	if err != nil {
		return err
	}
	return translate(txx.Create(rep).Error)
}

func (r *reportRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.DiagnosticReport, error) {
	if id == uuid.Nil {
		return nil, types.ErrNotFound
	}
	txx, err := dbc.Handle(r.db)
	if err != nil {
		return nil, err
	}
	var out types.DiagnosticReport
	if err := txx.Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *reportRepo) ListBySession(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.DiagnosticReport, error) {
	txx, err := dbc.Handle(r.db)
	if err != nil {
		return nil, err
	}
	var out []*types.DiagnosticReport
	if err := txx.Model(&types.DiagnosticReport{}).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
