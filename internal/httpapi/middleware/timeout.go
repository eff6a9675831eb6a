package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Deadline attaches a per-request deadline to the request context.
// Cancellation is cooperative: downstream calls (gate acquire, editor
// construction, export) are passed this context, and this middleware never
// aborts a handler mid-flight. Only a failed gate acquire is mapped to
// apierror.RequestTimeout by the handlers; an editor construction or export
// error caused by the deadline keeps that step's own error code.
func Deadline(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
