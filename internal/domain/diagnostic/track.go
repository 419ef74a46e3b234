package diagnostic

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Track is a learning track offered to companies. The catalog is read-only here.
type Track struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string                      `gorm:"column:name;not null" json:"nome"`
	Description string                      `gorm:"column:description;type:text" json:"descricao"`
	Tags        datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	Areas       datatypes.JSONSlice[string] `gorm:"column:areas" json:"areasAbordadas"`
	Level       string                      `gorm:"column:level" json:"nivel"`
	Category    string                      `gorm:"column:category;index" json:"categoria"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Track) TableName() string { return "learning_track" }
