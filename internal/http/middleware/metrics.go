package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/echonova-backend/internal/observability"
	"github.com/yungbote/echonova-backend/internal/platform/apierr"
)

// routeLabels folds route aliases onto one metrics label.
var routeLabels = map[string]string{
	"/api/diagnostico-ia": "/diagnostic-turn",
}

// Metrics instruments HTTP request counts/latency when metrics are enabled.
// Failed requests are also counted by the apierr code the handler recorded.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		route := routeLabel(c.FullPath())
		code := c.Writer.Status()
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(code), time.Since(start))
		if code >= http.StatusBadRequest {
			m.ObserveAPIError(route, errorCode(c, code))
		}
	}
}

func routeLabel(path string) string {
	if path == "" {
		return "unknown"
	}
	if alias, ok := routeLabels[path]; ok {
		return alias
	}
	return path
}

func errorCode(c *gin.Context, status int) string {
	for i := len(c.Errors) - 1; i >= 0; i-- {
		if ae, ok := apierr.As(c.Errors[i].Err); ok && ae.Code != "" {
			return ae.Code
		}
	}
	return "http_" + strconv.Itoa(status)
}
