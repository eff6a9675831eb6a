package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/docxredline/api/internal/blockid"
	"github.com/docxredline/api/internal/docxengine"
	"github.com/docxredline/api/internal/httpapi/apierror"
	"github.com/docxredline/api/internal/ir"
	"github.com/docxredline/api/internal/lifecycle"
	"github.com/docxredline/api/internal/metrics"
	"github.com/docxredline/api/internal/uploadsafety"
)

// Read implements POST /v1/read: extract the IR for an uploaded DOCX and
// return it as JSON, per the request flow in §2 (auth → multipart →
// upload safety → concurrency gate → editor lifecycle → IR extractor →
// response → cleanup).
func Read(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		buf, filename, ok := readUploadedFile(c, deps.Config.MaxFileSize)
		if !ok {
			return
		}

		if err := uploadsafety.Check(buf, deps.UploadLimits); err != nil {
			if isZipBomb(err) {
				fail(c, apierror.ZipBombDetected, err.Error())
			} else {
				fail(c, apierror.InvalidFileType, err.Error())
			}
			return
		}

		if err := deps.Gate.Acquire(ctx); err != nil {
			fail(c, apierror.RequestTimeout, "timed out waiting for a document processing slot")
			return
		}
		defer deps.Gate.Release()

		handle, err := lifecycle.Create(ctx, deps.Factory, buf, docxengine.LoadOptions{Mode: docxengine.ModeEditing})
		if err != nil {
			fail(c, apierror.DocumentLoadFailed, err.Error())
			return
		}
		defer handle.Release()

		nodes, err := handle.Editor.Traverse(ctx)
		if err != nil {
			fail(c, apierror.ExtractionFailed, err.Error())
			return
		}

		doc := ir.Extract(nodes, blockid.New(), ir.Options{
			Filename:            filename,
			Format:              "docx",
			IncludeDefinedTerms: true,
			IncludeOutline:      true,
		})

		deps.Metrics.Incr(ctx, metrics.CounterReadsTotal)
		c.JSON(http.StatusOK, doc)
	}
}

// isZipBomb reports whether err came from the ratio/size branch of
// uploadsafety.Check, or from a central directory that fails to parse at
// all, rather than the magic-byte branch — so handlers never collapse a
// corrupt-but-ZIP-shaped upload into "invalid file type".
func isZipBomb(err error) bool {
	if errors.Is(err, uploadsafety.ErrMalformedArchive) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "exceeds uncompressed size limit") ||
		strings.Contains(msg, "exceeds compression ratio limit")
}
