package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/docxredline/api/internal/httpapi/apierror"
)

const bearerPrefix = "Bearer "

// BearerAuth rejects any request whose Authorization header does not
// carry the exact configured token, in constant time, with a single
// error message regardless of whether the header was missing, malformed,
// or simply wrong — the failure mode must never be observable from the
// response.
func BearerAuth(apiKey string) gin.HandlerFunc {
	expected := []byte(apiKey)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, bearerPrefix)
		valid := strings.HasPrefix(header, bearerPrefix) &&
			subtle.ConstantTimeCompare([]byte(token), expected) == 1

		if !valid {
			env := apierror.New(apierror.Unauthorized, "authentication required")
			c.AbortWithStatusJSON(apierror.StatusFor(apierror.Unauthorized), env)
			return
		}
		c.Next()
	}
}
