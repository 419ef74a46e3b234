package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/echonova-backend/internal/data/repos"
	types "github.com/yungbote/echonova-backend/internal/domain"
	"github.com/yungbote/echonova-backend/internal/domain/diagnostic"
	"github.com/yungbote/echonova-backend/internal/observability"
	"github.com/yungbote/echonova-backend/internal/platform/apierr"
	"github.com/yungbote/echonova-backend/internal/platform/dbctx"
	"github.com/yungbote/echonova-backend/internal/platform/llm"
	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

// PlaceholderModelText is recorded in history when a reply carries no text
// for the user.
const PlaceholderModelText = "Ok, entendi. Podemos continuar."

var diagnosticTracer = otel.Tracer("github.com/yungbote/echonova-backend/internal/services/diagnostic")

type TurnInput struct {
	Token     string
	Message   string
	SessionID string
}

type TurnResult struct {
	// SessionID is empty when a brand new conversation was not kept.
	SessionID string
	Reply     llm.Reply
}

// ProviderSelector yields the backend adapter for one turn.
type ProviderSelector interface {
	Select() llm.Provider
}

type DiagnosticService interface {
	HandleTurn(ctx context.Context, in TurnInput) (*TurnResult, error)
}

type diagnosticService struct {
	log       *logger.Logger
	auth      AuthService
	companies repos.CompanyRepo
	sessions  repos.DiagnosticSessionRepo
	reports   repos.DiagnosticReportRepo
	catalog   CatalogService
	script    *DiagnosticScript
	providers ProviderSelector
	tx        dbctx.TxRunner
}

func NewDiagnosticService(
	log *logger.Logger,
	auth AuthService,
	companies repos.CompanyRepo,
	sessions repos.DiagnosticSessionRepo,
	reports repos.DiagnosticReportRepo,
	catalog CatalogService,
	script *DiagnosticScript,
	providers ProviderSelector,
	tx dbctx.TxRunner,
) DiagnosticService {
	return &diagnosticService{
		log:       log.With("service", "DiagnosticService"),
		auth:      auth,
		companies: companies,
		sessions:  sessions,
		reports:   reports,
		catalog:   catalog,
		script:    script,
		providers: providers,
		tx:        tx,
	}
}

func (s *diagnosticService) HandleTurn(ctx context.Context, in TurnInput) (res *TurnResult, err error) {
	ctx, span := diagnosticTracer.Start(ctx, "services.diagnostic.handle_turn")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	companyID, err := s.auth.VerifyToken(in.Token)
	if err != nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", err)
	}
	if _, err := s.companies.GetByID(dbctx.New(ctx), companyID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, apierr.New(http.StatusNotFound, "company_not_found", errors.New("company not found"))
		}
		return nil, s.persistenceError("load company", err)
	}

	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, apierr.New(http.StatusBadRequest, "message_required", errors.New("message is required"))
	}

	session, isNew, err := s.resolveSession(ctx, companyID, strings.TrimSpace(in.SessionID))
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Bool("diagnostic.new_session", isNew),
		attribute.Int("diagnostic.history_len", len(session.History)),
	)

	backend := s.backendName()
	start := time.Now()
	reply, err := s.providers.Select().SendTurn(ctx, message, session.Turns(), session.InitialPrompt)
	if err != nil {
		apiErr := s.backendError(err)
		observability.Current().ObserveBackend(backend, apiErr.Code, time.Since(start))
		return nil, apiErr
	}
	observability.Current().ObserveBackend(backend, "ok", time.Since(start))
	observability.Current().IncTurn(backend, string(reply.Status))
	span.SetAttributes(
		attribute.String("diagnostic.backend", backend),
		attribute.String("diagnostic.reply_status", string(reply.Status)),
	)

	sessionID, err := s.applyReply(ctx, session, isNew, message, reply)
	if err != nil {
		return nil, err
	}

	s.log.Info("diagnostic turn completed",
		"company_id", companyID,
		"session_id", sessionID,
		"status", reply.Status,
		"new_session", isNew,
		"history_len", len(session.History),
	)
	return &TurnResult{SessionID: sessionID, Reply: reply}, nil
}

func (s *diagnosticService) resolveSession(ctx context.Context, companyID uuid.UUID, rawID string) (*types.DiagnosticSession, bool, error) {
	if rawID == "" {
		catalog, err := s.catalog.PromptCatalog(ctx)
		if err != nil {
			s.log.Error("catalog unavailable", "error", err)
			return nil, false, apierr.New(http.StatusInternalServerError, "catalog_unavailable", err)
		}
		return diagnostic.NewSession(companyID, s.script.Render(catalog)), true, nil
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, false, apierr.New(http.StatusNotFound, "session_not_found", errors.New("session not found"))
	}
	session, err := s.sessions.GetByID(dbctx.New(ctx), id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, false, apierr.New(http.StatusNotFound, "session_not_found", errors.New("session not found"))
		}
		return nil, false, s.persistenceError("load session", err)
	}
	if !session.OwnedBy(companyID) {
		return nil, false, apierr.New(http.StatusForbidden, "forbidden", errors.New("session belongs to another company"))
	}
	return session, false, nil
}

// applyReply runs the phase transition and persists the outcome. It returns
// the session id to hand back to the caller.
func (s *diagnosticService) applyReply(ctx context.Context, session *types.DiagnosticSession, isNew bool, message string, reply llm.Reply) (string, error) {
	if isNew {
		if reply.Status != llm.StatusStarted {
			s.log.Warn("first reply was not a start, session discarded", "status", reply.Status)
			observability.Current().IncEphemeralSession()
			return "", nil
		}
		if err := s.sessions.Create(dbctx.New(ctx), session); err != nil {
			return "", s.persistenceError("create session", err)
		}
		return session.ID.String(), nil
	}

	session.AppendTurn(message, DisplayText(reply))

	if reply.Status == llm.StatusFinalized && reply.FinalReportText() == "" {
		s.log.Warn("finalized reply carried no report, saving history only", "session_id", session.ID)
	}
	if reply.Status != llm.StatusFinalized || reply.FinalReportText() == "" {
		if err := s.sessions.Save(dbctx.New(ctx), session); err != nil {
			return "", s.persistenceError("save session", err)
		}
		return session.ID.String(), nil
	}

	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		report, err := diagnostic.NewReport(session.CompanyID, session.ID, reply.CollectedData, reply.FinalReportText())
		if err != nil {
			return err
		}
		if err := s.reports.Create(dbc, report); err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		if session.Finalized() {
			s.log.Warn("session already linked to a report, keeping the first link",
				"session_id", session.ID,
				"report_id", report.ID,
			)
		}
		session.LinkReport(report.ID)
		return s.sessions.Save(dbc, session)
	})
	if err != nil {
		return "", s.persistenceError("finalize session", err)
	}
	observability.Current().IncReport()
	return session.ID.String(), nil
}

// DisplayText is the model turn recorded in history for a reply.
func DisplayText(reply llm.Reply) string {
	switch {
	case reply.Status == llm.StatusFinalized && reply.FinalReportText() != "":
		return reply.FinalReportText()
	case reply.Status == llm.StatusConfirmation && reply.StepSummaryText() != "":
		return reply.StepSummaryText()
	case reply.NextQuestionText() != "":
		return reply.NextQuestionText()
	}
	return PlaceholderModelText
}

// backendName labels metrics; selectors that cannot name their backend read
// as unknown.
func (s *diagnosticService) backendName() string {
	if named, ok := s.providers.(interface{ Backend() llm.Backend }); ok {
		return string(named.Backend())
	}
	return "unknown"
}

func (s *diagnosticService) backendError(err error) *apierr.Error {
	switch {
	case errors.Is(err, llm.ErrMissingConfig):
		s.log.Error("language model backend misconfigured", "error", err)
		return apierr.New(http.StatusInternalServerError, "provider_misconfigured", err)
	default:
		var be *llm.BackendError
		upstream := 0
		if errors.As(err, &be) {
			upstream = be.HTTPStatusCode()
		}
		s.log.Warn("language model backend unavailable", "error", err, "upstream_status", upstream)
		return apierr.New(http.StatusBadGateway, "backend_unavailable", err)
	}
}

func (s *diagnosticService) persistenceError(op string, err error) error {
	switch {
	case errors.Is(err, types.ErrInvalidDocument):
		s.log.Warn("document rejected", "op", op, "error", err)
		return apierr.New(http.StatusBadRequest, "validation_failure", err)
	case errors.Is(err, types.ErrNotFound):
		return apierr.New(http.StatusNotFound, "session_not_found", err)
	}
	s.log.Error("persistence failure", "op", op, "error", err)
	return apierr.New(http.StatusInternalServerError, "persistence_failure", fmt.Errorf("%s: %w", op, err))
}
