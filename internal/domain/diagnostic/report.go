package diagnostic

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Report is the finalized output of a session. Written once, never updated.
type Report struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;column:company_id;not null;index" json:"empresaId"`
	SessionID uuid.UUID `gorm:"type:uuid;column:session_id;not null;index" json:"sessionId"`

	CollectedData datatypes.JSON `gorm:"column:collected_data;not null" json:"dadosColetados"`
	ReportText    string         `gorm:"column:report_text;type:text;not null" json:"relatorioFinal"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}

func (Report) TableName() string { return "diagnostic_report" }

func NewReport(companyID, sessionID uuid.UUID, collected map[string]any, text string) (*Report, error) {
	if collected == nil {
		collected = map[string]any{}
	}
	raw, err := json.Marshal(collected)
	if err != nil {
		return nil, fmt.Errorf("%w: collected data: %v", ErrInvalidDocument, err)
	}
	return &Report{
		ID:            uuid.New(),
		CompanyID:     companyID,
		SessionID:     sessionID,
		CollectedData: datatypes.JSON(raw),
		ReportText:    text,
	}, nil
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CompanyID == uuid.Nil || r.SessionID == uuid.Nil {
		return fmt.Errorf("%w: report requires company and session", ErrInvalidDocument)
	}
	if strings.TrimSpace(r.ReportText) == "" {
		return fmt.Errorf("%w: report text is empty", ErrInvalidDocument)
	}
	if len(r.CollectedData) == 0 {
		r.CollectedData = datatypes.JSON("{}")
	}
	return nil
}

// Collected decodes the collected data, returning an empty map on bad JSON.
func (r *Report) Collected() map[string]any {
	out := map[string]any{}
	if len(r.CollectedData) == 0 {
		return out
	}
	_ = json.Unmarshal(r.CollectedData, &out)
	return out
}
