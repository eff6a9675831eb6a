// Package httpapi assembles the gin.Engine: middleware order, routes, and
// the shared Deps every handler closes over. Wiring order mirrors the
// teacher's cmd/zmux-server/main.go: Recovery first, then CORS (dev
// only), then request-id, then the logger and error metrics, then
// route-scoped deadline/auth/content-type gates.
package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/docxredline/api/internal/httpapi/handlers"
	"github.com/docxredline/api/internal/httpapi/middleware"
)

// NewRouter builds the fully-wired gin.Engine for the service.
func NewRouter(deps *handlers.Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	_ = r.SetTrustedProxies(nil)

	r.Use(gin.Recovery())

	if deps.Config.Env == "dev" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  []string{"http://localhost:5173"},
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Content-Type", "Authorization", "X-Request-Id"},
			ExposeHeaders: []string{"X-Edits-Applied", "X-Edits-Skipped", "X-Warnings", "X-Request-Id"},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.Use(middleware.RequestID())
	r.Use(middleware.ZapLogger(deps.Log))
	r.Use(middleware.ErrorMetrics(deps.Metrics))

	// Health is unauthenticated at both paths and never touches the
	// editor, gate, or virtual DOM.
	r.GET("/health", handlers.Health)
	r.GET("/v1/health", handlers.Health)

	v1 := r.Group("/v1")
	v1.Use(middleware.Deadline(deps.Config.RequestTimeout))
	v1.Use(middleware.BearerAuth(deps.Config.APIKey))

	v1.POST("/read", middleware.RequireMultipart(), handlers.Read(deps))
	v1.POST("/apply", middleware.RequireMultipart(), handlers.Apply(deps))

	return r
}
