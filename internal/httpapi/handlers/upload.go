package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docxredline/api/internal/httpapi/apierror"
)

// readUploadedFile extracts the required "file" multipart field, capped
// at maxSize bytes. ok is false after it has already written an error
// response: MISSING_FILE when no file part is present, or the distinct
// 413 PAYLOAD_TOO_LARGE class (§7) when the multipart-layer size cap
// trips.
func readUploadedFile(c *gin.Context, maxSize int64) (buf []byte, filename string, ok bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		fail(c, apierror.MissingFile, "no file part provided")
		return nil, "", false
	}

	f, err := fileHeader.Open()
	if err != nil {
		fail(c, apierror.MissingFile, "could not open uploaded file")
		return nil, "", false
	}
	defer f.Close()

	limited := http.MaxBytesReader(c.Writer, f, maxSize)
	body, err := io.ReadAll(limited)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, apierror.PayloadTooLarge, "uploaded file exceeds the configured size limit")
			return nil, "", false
		}
		fail(c, apierror.MissingFile, "could not read uploaded file")
		return nil, "", false
	}

	return body, fileHeader.Filename, true
}

// readEditsField extracts the required "edits" multipart text field.
func readEditsField(c *gin.Context) (raw string, ok bool) {
	raw, exists := c.GetPostForm("edits")
	if !exists || raw == "" {
		fail(c, apierror.MissingEdits, "no edits field provided")
		return "", false
	}
	return raw, true
}
