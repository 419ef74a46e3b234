package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/echonova-backend/internal/platform/apierr"
	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError writes err using its apierr status and code. Server-side
// failures keep their code but the detail is only logged.
func RespondAPIError(c *gin.Context, log *logger.Logger, err error) {
	if ae, ok := apierr.As(err); ok {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		if status < http.StatusInternalServerError {
			RespondError(c, status, ae.Code, ae)
			return
		}
		if log != nil {
			log.Error("request failed", "path", c.FullPath(), "status", status, "code", ae.Code, "error", ae.Err)
		}
		RespondError(c, status, ae.Code, publicError(status))
		return
	}
	if log != nil {
		log.Error("unhandled request error", "path", c.FullPath(), "error", err)
	}
	RespondError(c, http.StatusInternalServerError, "internal_error", errInternal)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
