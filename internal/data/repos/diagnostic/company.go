package diagnostic

import (
	"fmt"

	"github.com/google/uuid"

	types "github.com/yungbote/echonova-backend/internal/domain"
	"github.com/yungbote/echonova-backend/internal/platform/dbctx"
	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

type CompanyRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Company, error)
	Create(dbc dbctx.Context, c *types.Company) error
}

type companyRepo struct {
	db  dbctx.Source
	log *logger.Logger
}

func NewCompanyRepo(db dbctx.Source, log *logger.Logger) CompanyRepo {
	return &companyRepo{db: db, log: log.With("repo", "CompanyRepo")}
}

func (r *companyRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Company, error) {
	if id == uuid.Nil {
		return nil, types.ErrNotFound
	}
	txx, err := dbc.Handle(r.db)
	if err != nil {
		return nil, err
	}
	var out types.Company
	if err := txx.Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *companyRepo) Create(dbc dbctx.Context, c *types.Company) error {
	if c == nil {
		return fmt.Errorf("%w: nil company", types.ErrInvalidDocument)
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	txx, err := dbc.Handle(r.db)
	if err != nil {
		return err
	}
	return translate(txx.Create(c).Error)
}
