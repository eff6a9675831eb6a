package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/docxredline/api/internal/applicator"
	"github.com/docxredline/api/internal/blockid"
	"github.com/docxredline/api/internal/docxengine"
	"github.com/docxredline/api/internal/editmodel"
	"github.com/docxredline/api/internal/httpapi/apierror"
	"github.com/docxredline/api/internal/ir"
	"github.com/docxredline/api/internal/lifecycle"
	"github.com/docxredline/api/internal/metrics"
	"github.com/docxredline/api/internal/recompress"
	"github.com/docxredline/api/internal/uploadsafety"
	"github.com/docxredline/api/internal/validator"
)

const (
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Apply implements POST /v1/apply: decode a batch of edits, validate them
// against the uploaded document's IR, and either report on them (dry run)
// or apply, export, and recompress a redlined DOCX, per §4.9.4.
func Apply(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		dryRun := c.Query("dry_run") == "true"

		buf, filename, ok := readUploadedFile(c, deps.Config.MaxFileSize)
		if !ok {
			return
		}
		editsRaw, ok := readEditsField(c)
		if !ok {
			return
		}

		edits, ok := decodeEdits(c, editsRaw)
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
		doc := ir.Extract(nodes, blockid.New(), ir.Options{Filename: filename, Format: "docx"})

		report := validator.Validate(edits, doc)

		if dryRun {
			deps.Metrics.Incr(ctx, metrics.CounterDryRunsTotal)
			c.JSON(200, report)
			return
		}

		if !report.Valid {
			details := make([]apierror.Detail, 0, len(report.Issues))
			for _, issue := range report.Issues {
				details = append(details, apierror.Detail{
					EditIndex: issue.EditIndex,
					BlockId:   issue.BlockId,
					Type:      string(issue.Type),
					Message:   issue.Message,
				})
			}
			fail(c, apierror.InvalidEdits, "edit batch failed validation", details...)
			return
		}

		author := docxengine.Author{Name: deps.Config.DefaultAuthorName, Email: deps.Config.DefaultAuthorEmail}
		result, err := applicator.Apply(ctx, edits, doc, handle.Editor, author)
		if err != nil {
			fail(c, apierror.ApplyFailed, err.Error())
			return
		}

		comments := make([]docxengine.Comment, 0, len(result.Comments))
		for _, cr := range result.Comments {
			block, _ := doc.Resolve(cr.BlockId)
			uuid := cr.BlockId
			if block != nil {
				uuid = block.ID
			}
			comments = append(comments, docxengine.Comment{
				BlockUUID: uuid,
				CommentID: cr.CommentID,
				Text:      cr.Text,
				Author:    author,
			})
		}

		exported, err := handle.Editor.Export(ctx, comments)
		if err != nil {
			fail(c, apierror.ApplyFailed, err.Error())
			return
		}

		output, err := recompress.Recompress(exported)
		if err != nil {
			deps.Log.Warn("recompression failed, shipping uncompressed export", zap.Error(err))
			output = exported
		}

		deps.Metrics.Incr(ctx, metrics.CounterAppliesTotal)

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outputFilename(filename)))
		c.Header("X-Edits-Applied", strconv.Itoa(result.Applied))
		c.Header("X-Edits-Skipped", strconv.Itoa(len(result.Skipped)))
		c.Header("X-Warnings", strconv.Itoa(len(report.Warnings)))
		c.Data(200, docxContentType, output)
	}
}

// decodeEdits picks JSON vs markdown per §4.9.4's shape-sniffing rule and
// maps each decode failure to its named error code.
func decodeEdits(c *gin.Context, raw string) ([]editmodel.Edit, bool) {
	if editmodel.LooksLikeMarkdown(raw) {
		edits, _, _, err := editmodel.DecodeMarkdown(raw)
		if err != nil {
			fail(c, apierror.InvalidEditsMarkdown, err.Error())
			return nil, false
		}
		return edits, true
	}

	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") {
		fail(c, apierror.MissingEdits, "edits field is not a JSON array")
		return nil, false
	}

	edits, err := editmodel.DecodeJSON([]byte(raw))
	if err != nil {
		fail(c, apierror.InvalidEditsJSON, err.Error())
		return nil, false
	}
	// An empty array is a valid, no-op batch: it must flow through
	// validate/apply rather than be rejected here.
	return edits, true
}

// outputFilename derives "<sanitized>-edited.docx" from the original
// upload name, stripping anything outside a safe printable ASCII set and
// the characters a Content-Disposition value must not carry raw.
func outputFilename(original string) string {
	base := strings.TrimSuffix(original, ".docx")
	var sb strings.Builder
	for _, r := range base {
		switch {
		case r == '"' || r == '\\' || r == '\r' || r == '\n':
			continue
		case r < 0x20 || r > 0x7E:
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' || r == ' ':
			sb.WriteRune(r)
		}
	}
	name := strings.TrimSpace(sb.String())
	if name == "" {
		return "document-edited.docx"
	}
	return name + "-edited.docx"
}
