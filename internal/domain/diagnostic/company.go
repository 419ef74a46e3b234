package diagnostic

import (
	"time"

	"github.com/google/uuid"
)

// Company owns sessions and reports. Registration lives elsewhere; this
// service only reads it.
type Company struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"column:name;not null" json:"nomeEmpresa"`
	Email string    `gorm:"column:email;uniqueIndex" json:"email"`
	TaxID string    `gorm:"column:tax_id;index" json:"cnpj"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Company) TableName() string { return "company" }
