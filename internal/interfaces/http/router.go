// Package http assembles the FleetSurvey API server.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/logging"
	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/metrics"
	"github.com/harborwise/fleetsurvey/internal/interfaces/http/handlers"
	"github.com/harborwise/fleetsurvey/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and cross-cutting dependencies for
// the route tree.
type RouterConfig struct {
	ShipHandler        *handlers.ShipHandler
	CertificateHandler *handlers.CertificateHandler
	HealthHandler      *handlers.HealthHandler

	Logger  logging.Logger
	Metrics *metrics.SurveyMetrics
	Mode    string
}

// NewRouter wires the complete route tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS())
	if cfg.Metrics != nil {
		r.Use(middleware.Logging(cfg.Logger, cfg.Metrics))
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	} else {
		r.Use(middleware.Logging(cfg.Logger, nil))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Healthz)
		r.GET("/readyz", cfg.HealthHandler.Readyz)
	}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/ships", cfg.ShipHandler.List)
		v1.POST("/ships", cfg.ShipHandler.Create)
		v1.GET("/ships/:id", cfg.ShipHandler.Get)
		v1.GET("/ships/:id/certificates", cfg.CertificateHandler.ListByShip)
		v1.GET("/ships/:id/schedule", cfg.ShipHandler.Schedule)
		v1.POST("/ships/:id/recalculate", cfg.ShipHandler.Recalculate)

		v1.POST("/certificates", cfg.CertificateHandler.Create)
		v1.GET("/certificates/:id", cfg.CertificateHandler.Get)
		v1.POST("/certificates/:id/recalculate", cfg.CertificateHandler.Preview)
		v1.PUT("/certificates/:id/document", cfg.CertificateHandler.UploadDocument)
		v1.GET("/certificates/:id/document", cfg.CertificateHandler.DocumentURL)
	}

	return r
}
