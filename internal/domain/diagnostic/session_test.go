package diagnostic

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/echonova-backend/internal/platform/llm"
)

func TestNewSessionStartsEmpty(t *testing.T) {
	owner := uuid.New()
	s := NewSession(owner, "prompt")
	if s.ID == uuid.Nil {
		t.Fatalf("expected id to be assigned at construction")
	}
	if len(s.History) != 0 || s.History == nil {
		t.Fatalf("expected empty non-nil history, got %#v", s.History)
	}
	if !s.OwnedBy(owner) || s.OwnedBy(uuid.New()) {
		t.Fatalf("ownership check failed")
	}
	if s.Finalized() {
		t.Fatalf("new session must not be finalized")
	}
}

func TestAppendTurnAddsUserThenModel(t *testing.T) {
	s := NewSession(uuid.New(), "prompt")
	s.AppendTurn("Hello", "Welcome")
	s.AppendTurn("42 employees", "What is your sector?")

	if len(s.History) != 4 {
		t.Fatalf("history len = %d, want 4", len(s.History))
	}
	if s.History[0].Role != llm.RoleUser || s.History[1].Role != llm.RoleModel {
		t.Fatalf("unexpected roles %q %q", s.History[0].Role, s.History[1].Role)
	}
	if got := s.History[3].Text(); got != "What is your sector?" {
		t.Fatalf("last entry = %q", got)
	}

	turns := s.Turns()
	turns[0] = llm.TextTurn(llm.RoleModel, "mutated")
	if s.History[0].Text() != "Hello" {
		t.Fatalf("Turns must return a copy")
	}
}

func TestLinkReportOnlyOnce(t *testing.T) {
	s := NewSession(uuid.New(), "prompt")
	first := uuid.New()
	if !s.LinkReport(first) {
		t.Fatalf("expected first link to succeed")
	}
	if s.LinkReport(uuid.New()) {
		t.Fatalf("expected second link to be refused")
	}
	if s.ReportID == nil || *s.ReportID != first {
		t.Fatalf("report id = %v, want %v", s.ReportID, first)
	}
}

func TestSessionValidate(t *testing.T) {
	s := NewSession(uuid.Nil, "prompt")
	if err := s.Validate(); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument for missing owner, got %v", err)
	}

	s = NewSession(uuid.New(), "  ")
	if err := s.Validate(); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument for blank prompt, got %v", err)
	}

	s = NewSession(uuid.New(), "prompt")
	s.History = append(s.History, llm.TextTurn("system", "x"))
	if err := s.Validate(); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument for bad role, got %v", err)
	}
}

func TestNewReport(t *testing.T) {
	r, err := NewReport(uuid.New(), uuid.New(), nil, "Report text")
	if err != nil {
		t.Fatalf("NewReport: %v", err)
	}
	if string(r.CollectedData) != "{}" {
		t.Fatalf("collected data = %s, want {}", r.CollectedData)
	}
	if len(r.Collected()) != 0 {
		t.Fatalf("expected empty collected map")
	}

	r, err = NewReport(uuid.New(), uuid.New(), map[string]any{"setor": "varejo"}, "Report text")
	if err != nil {
		t.Fatalf("NewReport: %v", err)
	}
	if r.Collected()["setor"] != "varejo" {
		t.Fatalf("unexpected collected data %s", r.CollectedData)
	}
}
