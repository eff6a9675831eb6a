// Package middleware holds the gin.HandlerFuncs the router chains in
// front of every /v1 route, adapted from the teacher's own middleware
// package (request id, authentication, logging) to this service's auth
// and error-envelope model.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin.Context key holding the current request's id.
const RequestIDKey = "request_id"

const requestIDHeader = "X-Request-Id"

// RequestID ensures every request carries an id: it echoes a caller-
// supplied X-Request-Id unchanged, or mints a fresh UUID, and stamps it
// onto both the response header and the context for downstream logging.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(requestIDHeader, requestID)
		c.Set(RequestIDKey, requestID)
		c.Next()
	}
}

// GetRequestID retrieves the current request's id, or "" if unset.
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(RequestIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
