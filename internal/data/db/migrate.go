package db

import (
	"gorm.io/gorm"

	types "github.com/yungbote/echonova-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// owners + catalog (read-only to the diagnostic engine)
		&types.Company{},
		&types.Track{},

		// conversations
		&types.DiagnosticSession{},
		&types.DiagnosticReport{},
	)
}
