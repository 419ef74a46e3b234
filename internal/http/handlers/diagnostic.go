package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/echonova-backend/internal/http/middleware"
	"github.com/yungbote/echonova-backend/internal/http/response"
	"github.com/yungbote/echonova-backend/internal/platform/apierr"
	"github.com/yungbote/echonova-backend/internal/platform/llm"
	"github.com/yungbote/echonova-backend/internal/platform/logger"
	"github.com/yungbote/echonova-backend/internal/services"
)

type DiagnosticHandler struct {
	log *logger.Logger
	svc services.DiagnosticService
}

func NewDiagnosticHandler(log *logger.Logger, svc services.DiagnosticService) *DiagnosticHandler {
	return &DiagnosticHandler{log: log.With("handler", "DiagnosticHandler"), svc: svc}
}

type diagnosticTurnRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type diagnosticTurnResponse struct {
	Success    bool      `json:"success"`
	SessionID  string    `json:"sessionId"`
	IAResponse llm.Reply `json:"iaResponse"`
}

// POST /diagnostic-turn
func (h *DiagnosticHandler) Turn(c *gin.Context) {
	token := middleware.TokenFromRequest(c)
	if token == "" {
		h.fail(c, apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("missing credentials")))
		return
	}
	var req diagnosticTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apierr.New(http.StatusBadRequest, "invalid_request", errors.New("request body must be a JSON object")))
		return
	}
	res, err := h.svc.HandleTurn(c.Request.Context(), services.TurnInput{
		Token:     token,
		Message:   req.Message,
		SessionID: req.SessionID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.RespondOK(c, diagnosticTurnResponse{
		Success:    true,
		SessionID:  res.SessionID,
		IAResponse: res.Reply,
	})
}

func (h *DiagnosticHandler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	response.RespondAPIError(c, h.log, err)
}
