package diagnostic

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/echonova-backend/internal/platform/llm"
)

// Session is one diagnostic conversation. History is only ever appended to
// and replayed verbatim to the backend, after the initial prompt.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;column:company_id;not null;index" json:"company_id"`

	History       datatypes.JSONSlice[llm.Turn] `gorm:"column:history;not null" json:"history"`
	InitialPrompt string                        `gorm:"column:initial_prompt;type:text;not null" json:"initial_prompt"`

	ReportID *uuid.UUID `gorm:"type:uuid;column:report_id;index" json:"report_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Session) TableName() string { return "diagnostic_session" }

// NewSession builds an unsaved session with a fresh id and empty history.
func NewSession(companyID uuid.UUID, initialPrompt string) *Session {
	return &Session{
		ID:            uuid.New(),
		CompanyID:     companyID,
		History:       datatypes.JSONSlice[llm.Turn]{},
		InitialPrompt: initialPrompt,
	}
}

// Turns returns a copy of the history suitable for handing to a provider.
func (s *Session) Turns() []llm.Turn {
	out := make([]llm.Turn, len(s.History))
	copy(out, s.History)
	return out
}

// AppendTurn records one completed exchange: the user's message followed by
// the text derived from the model's reply.
func (s *Session) AppendTurn(message, modelText string) {
	s.History = append(s.History,
		llm.TextTurn(llm.RoleUser, message),
		llm.TextTurn(llm.RoleModel, modelText),
	)
}

// LinkReport sets the report reference unless one is already present.
func (s *Session) LinkReport(reportID uuid.UUID) bool {
	if s.ReportID != nil {
		return false
	}
	id := reportID
	s.ReportID = &id
	return true
}

func (s *Session) Finalized() bool { return s.ReportID != nil }

func (s *Session) OwnedBy(companyID uuid.UUID) bool { return s.CompanyID == companyID }

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *Session) BeforeSave(tx *gorm.DB) error {
	if s.History == nil {
		s.History = datatypes.JSONSlice[llm.Turn]{}
	}
	return s.Validate()
}

func (s *Session) Validate() error {
	if s.CompanyID == uuid.Nil {
		return fmt.Errorf("%w: session has no owner", ErrInvalidDocument)
	}
	if strings.TrimSpace(s.InitialPrompt) == "" {
		return fmt.Errorf("%w: session has no initial prompt", ErrInvalidDocument)
	}
	for i, turn := range s.History {
		if turn.Role != llm.RoleUser && turn.Role != llm.RoleModel {
			return fmt.Errorf("%w: history[%d] has role %q", ErrInvalidDocument, i, turn.Role)
		}
		if len(turn.Parts) == 0 {
			return fmt.Errorf("%w: history[%d] has no parts", ErrInvalidDocument, i)
		}
	}
	return nil
}
