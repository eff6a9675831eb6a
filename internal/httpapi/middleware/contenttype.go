package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/docxredline/api/internal/httpapi/apierror"
)

// RequireMultipart rejects any upload endpoint request whose Content-Type
// is not multipart/form-data (with or without a boundary/charset suffix).
func RequireMultipart() gin.HandlerFunc {
	return func(c *gin.Context) {
		contentType := c.GetHeader("Content-Type")
		if !strings.HasPrefix(contentType, "multipart/form-data") {
			env := apierror.New(apierror.InvalidContentType, "Content-Type must be multipart/form-data")
			c.AbortWithStatusJSON(apierror.StatusFor(apierror.InvalidContentType), env)
			return
		}
		c.Next()
	}
}
