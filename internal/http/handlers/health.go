package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	log     *logger.Logger
	db      Pinger
	timeout time.Duration
}

func NewHealthHandler(log *logger.Logger, db Pinger) *HealthHandler {
	return &HealthHandler{log: log.With("handler", "HealthHandler"), db: db, timeout: 5 * time.Second}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// DatabaseHealth opens the lazy connection if needed and pings it.
func (h *HealthHandler) DatabaseHealth(c *gin.Context) {
	now := time.Now().UTC().Format(time.RFC3339)
	if h.db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":    "error",
			"message":   "database not configured",
			"error":     "no database connection",
			"timestamp": now,
		})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.log.Error("database health check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":    "error",
			"message":   "database unreachable",
			"error":     err.Error(),
			"timestamp": now,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "database connected",
		"timestamp": now,
	})
}
