package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/echonova-backend/internal/domain"
	"github.com/yungbote/echonova-backend/internal/domain/diagnostic"
)

func SeedCompany(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Company {
	tb.Helper()
	c := &types.Company{
		ID:    uuid.New(),
		Name:  name,
		Email: uuid.NewString() + "@example.com",
		TaxID: "00.000.000/0001-00",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed company: %v", err)
	}
	return c
}

func SeedTrack(tb testing.TB, ctx context.Context, tx *gorm.DB, name, category string) *types.Track {
	tb.Helper()
	tr := &types.Track{
		ID:          uuid.New(),
		Name:        name,
		Description: name + " description",
		Tags:        []string{"lideranca"},
		Areas:       []string{"gestao"},
		Level:       "intermediario",
		Category:    category,
	}
	if err := tx.WithContext(ctx).Create(tr).Error; err != nil {
		tb.Fatalf("seed track: %v", err)
	}
	return tr
}

// SeedSession persists a session for companyID with the given completed exchanges.
func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, companyID uuid.UUID, exchanges ...[2]string) *types.DiagnosticSession {
	tb.Helper()
	s := diagnostic.NewSession(companyID, "initial prompt")
	for _, ex := range exchanges {
		s.AppendTurn(ex[0], ex[1])
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}
