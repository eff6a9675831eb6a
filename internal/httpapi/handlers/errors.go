package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/docxredline/api/internal/httpapi/apierror"
)

// fail writes the standard error envelope and aborts the gin chain so no
// further handler code or middleware-level body writing runs.
func fail(c *gin.Context, code apierror.Code, message string, details ...apierror.Detail) {
	_ = c.Error(errors.New(message))
	env := apierror.New(code, message, details...)
	c.AbortWithStatusJSON(apierror.StatusFor(code), env)
}
