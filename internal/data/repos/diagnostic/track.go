package diagnostic

import (
	"github.com/google/uuid"

	types "github.com/yungbote/echonova-backend/internal/domain"
	"github.com/yungbote/echonova-backend/internal/platform/dbctx"
	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

type TrackRepo interface {
	ListAll(dbc dbctx.Context) ([]*types.Track, error)
	Create(dbc dbctx.Context, rows []*types.Track) ([]*types.Track, error)
}

type trackRepo struct {
	db  dbctx.Source
	log *logger.Logger
}

func NewTrackRepo(db dbctx.Source, log *logger.Logger) TrackRepo {
	return &trackRepo{db: db, log: log.With("repo", "TrackRepo")}
}

func (r *trackRepo) ListAll(dbc dbctx.Context) ([]*types.Track, error) {
	txx, err := dbc.Handle(r.db)
	if err != nil {
		return nil, err
	}
	var out []*types.Track
	if err := txx.Model(&types.Track{}).
		Order("category ASC, name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *trackRepo) Create(dbc dbctx.Context, rows []*types.Track) ([]*types.Track, error) {
	if len(rows) == 0 {
		return []*types.Track{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	txx, err := dbc.Handle(r.db)
	if err != nil {
		return nil, err
	}
	if err := txx.Create(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}
