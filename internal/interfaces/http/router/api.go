package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobbook/backend/internal/infrastructure/config"
	"github.com/jobbook/backend/internal/infrastructure/logger"
	"github.com/jobbook/backend/internal/infrastructure/telemetry"
	"github.com/jobbook/backend/internal/interfaces/http/handler"
	"github.com/jobbook/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers are the resource handlers the API mounts
type Handlers struct {
	JobOrders *handler.RecordHandler
	Invoices  *handler.RecordHandler
	Expenses  *handler.ExpenseHandler
	Reports   *handler.ReportHandler
	Health    *handler.HealthHandler
}

// EngineConfig holds what the engine's middleware stack needs
type EngineConfig struct {
	HTTP    config.HTTPConfig
	Tracing middleware.TracingConfig
	Meter   *telemetry.MeterProvider
	Logger  *zap.Logger
}

// NewEngine builds the gin engine with the full middleware stack and every
// route of the jobbook API. /health sits outside /api/v1 and needs no owner.
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// order: request ID first so every later layer can tag with it
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Tracing))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(cfg.Meter, log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if h.Health != nil {
		engine.GET("/health", h.Health.Check)
	}

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(middleware.Owner())
	for _, g := range domainGroups(h) {
		r.Register(g)
	}
	r.Setup()
	return engine
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	cors.MaxAge = 12 * time.Hour
	return cors
}

func domainGroups(h Handlers) []*DomainGroup {
	var groups []*DomainGroup

	if h.JobOrders != nil {
		g := recordGroup("job-orders", h.JobOrders)
		g.PATCH("/:id/items/:index/status", h.JobOrders.SetItemStatus)
		groups = append(groups, g)
	}
	if h.Invoices != nil {
		g := recordGroup("invoices", h.Invoices)
		g.PATCH("/:id/payment-status", h.Invoices.SetPaymentStatus)
		groups = append(groups, g)
	}
	if h.Expenses != nil {
		g := NewDomainGroup("expenses", "/expenses")
		g.GET("", h.Expenses.List).
			POST("", h.Expenses.Create).
			GET("/:id", h.Expenses.Get).
			PUT("/:id", h.Expenses.Update).
			DELETE("/:id", h.Expenses.Delete)
		groups = append(groups, g)
	}
	if h.Reports != nil {
		g := NewDomainGroup("reports", "/reports")
		g.GET("/records", h.Reports.Records).
			GET("/dashboard", h.Reports.Dashboard).
			GET("/series", h.Reports.Series).
			GET("/expenses", h.Reports.Expenses)
		groups = append(groups, g)
	}
	return groups
}

// recordGroup holds the routes job orders and invoices share
func recordGroup(name string, h *handler.RecordHandler) *DomainGroup {
	g := NewDomainGroup(name, "/"+name)
	g.GET("", h.List).
		POST("", h.Create).
		GET("/:id", h.Get).
		PUT("/:id", h.Update).
		PATCH("/:id", h.UpdateDetails).
		PUT("/:id/items", h.ReplaceItems).
		PUT("/:id/paid-amount", h.SetPaidAmount).
		DELETE("/:id", h.Delete).
		POST("/:id/payments", h.RecordPayment).
		POST("/:id/cancel", h.Cancel)
	return g
}
