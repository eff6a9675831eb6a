// Package handlers implements the /v1 request handlers: multipart
// decoding, upload safety, the concurrency gate, editor lifecycle, IR
// extraction, edit validation/apply, and response composition.
package handlers

import (
	"go.uber.org/zap"

	"github.com/docxredline/api/internal/concurrency"
	"github.com/docxredline/api/internal/config"
	"github.com/docxredline/api/internal/docxengine"
	"github.com/docxredline/api/internal/metrics"
	"github.com/docxredline/api/internal/uploadsafety"
)

// Deps bundles everything a handler needs, constructed once at boot and
// shared (read-only) across every request.
type Deps struct {
	Factory docxengine.Factory
	Gate    *concurrency.Gate
	Config  *config.Config
	Metrics *metrics.Sink
	Log     *zap.Logger

	UploadLimits uploadsafety.Limits
}
