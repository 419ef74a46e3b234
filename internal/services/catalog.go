package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/echonova-backend/internal/clients/redis"
	"github.com/yungbote/echonova-backend/internal/data/repos"
	types "github.com/yungbote/echonova-backend/internal/domain"
	"github.com/yungbote/echonova-backend/internal/platform/dbctx"
	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

const (
	catalogCacheKey   = "catalog:tracks:prompt"
	emptyCatalogText  = "Nenhuma trilha disponível no momento."
	defaultCatalogTTL = 5 * time.Minute
)

type CatalogService interface {
	// PromptCatalog returns every learning track formatted for the diagnostic prompt.
	PromptCatalog(ctx context.Context) (string, error)
	Invalidate(ctx context.Context) error
}

type catalogService struct {
	log    *logger.Logger
	tracks repos.TrackRepo
	cache  redis.Cache
	ttl    time.Duration
}

// NewCatalogService builds the catalog reader. cache may be nil.
func NewCatalogService(log *logger.Logger, tracks repos.TrackRepo, cache redis.Cache, ttl time.Duration) CatalogService {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	return &catalogService{
		log:    log.With("service", "CatalogService"),
		tracks: tracks,
		cache:  cache,
		ttl:    ttl,
	}
}

func (s *catalogService) PromptCatalog(ctx context.Context) (string, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, catalogCacheKey)
		if err != nil {
			s.log.Warn("catalog cache read failed", "error", err)
		} else if ok {
			return cached, nil
		}
	}

	rows, err := s.tracks.ListAll(dbctx.New(ctx))
	if err != nil {
		return "", fmt.Errorf("list tracks: %w", err)
	}
	text := FormatTracks(rows)

	if s.cache != nil {
		if err := s.cache.Set(ctx, catalogCacheKey, text, s.ttl); err != nil {
			s.log.Warn("catalog cache write failed", "error", err)
		}
	}
	return text, nil
}

func (s *catalogService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, catalogCacheKey)
}

// FormatTracks renders tracks as a bullet list, one block per track.
func FormatTracks(rows []*types.Track) string {
	if len(rows) == 0 {
		return emptyCatalogText
	}
	var sb strings.Builder
	for i, t := range rows {
		if t == nil {
			continue
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "- %s", strings.TrimSpace(t.Name))
		writeField(&sb, "Descrição", t.Description)
		writeField(&sb, "Nível", t.Level)
		writeField(&sb, "Categoria", t.Category)
		writeField(&sb, "Áreas abordadas", strings.Join(t.Areas, ", "))
		writeField(&sb, "Tags", strings.Join(t.Tags, ", "))
	}
	return sb.String()
}

func writeField(sb *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "\n  %s: %s", label, value)
}
