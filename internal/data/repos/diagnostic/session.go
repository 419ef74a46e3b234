package diagnostic

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/echonova-backend/internal/domain"
	"github.com/yungbote/echonova-backend/internal/platform/dbctx"
	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

type SessionRepo interface {
	Create(dbc dbctx.Context, s *types.DiagnosticSession) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.DiagnosticSession, error)
	// Save writes history and the report link. Owner and initial prompt are never rewritten.
	Save(dbc dbctx.Context, s *types.DiagnosticSession) error
	ListByCompany(dbc dbctx.Context, companyID uuid.UUID, limit int) ([]*types.DiagnosticSession, error)
}

type sessionRepo struct {
	db  dbctx.Source
	log *logger.Logger
}

func NewSessionRepo(db dbctx.Source, log *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: log.With("repo", "DiagnosticSessionRepo")}
}

func (r *sessionRepo) Create(dbc dbctx.Context, s *types.DiagnosticSession) error {
	if s == nil {
		return fmt.Errorf("%w: nil session", types.ErrInvalidDocument)
	}
	txx, err := dbc.Handle(r.db)
	if err != nil {
		return err
	}
	return translate(txx.Create(s).Error)
}

func (r *sessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.DiagnosticSession, error) {
	if id == uuid.Nil {
		return nil, types.ErrNotFound
	}
	txx, err := dbc.Handle(r.db)
	if err != nil {
		return nil, err
	}
	var out types.DiagnosticSession
	if err := txx.Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *sessionRepo) Save(dbc dbctx.Context, s *types.DiagnosticSession) error {
	if s == nil || s.ID == uuid.Nil {
		return fmt.Errorf("%w: session has no id", types.ErrInvalidDocument)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	txx, err := dbc.Handle(r.db)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	res := txx.Model(&types.DiagnosticSession{}).
		Where("id = ?", s.ID).
		UpdateColumns(map[string]interface{}{
			"history":    s.History,
			"report_id":  s.ReportID,
			"updated_at": now,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return types.ErrNotFound
	}
	s.UpdatedAt = now
	return nil
}

func (r *sessionRepo) ListByCompany(dbc dbctx.Context, companyID uuid.UUID, limit int) ([]*types.DiagnosticSession, error) {
	if companyID == uuid.Nil {
		return nil, fmt.Errorf("missing company_id")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	txx, err := dbc.Handle(r.db)
	if err != nil {
		return nil, err
	}
	var out []*types.DiagnosticSession
	if err := txx.Model(&types.DiagnosticSession{}).
		Where("company_id = ?", companyID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
