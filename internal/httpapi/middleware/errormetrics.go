package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/docxredline/api/internal/metrics"
)

// ErrorMetrics increments the shared errors_total counter once a request
// finishes with a 4xx/5xx status, mirroring how ZapLogger inspects the
// final status after calling c.Next() rather than threading a sink
// through every handler's error path.
func ErrorMetrics(sink *metrics.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Writer.Status() >= 400 {
			sink.Incr(c.Request.Context(), metrics.CounterErrorsTotal)
		}
	}
}
