package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	billingapp "github.com/jobbook/backend/internal/application/billing"
	reportapp "github.com/jobbook/backend/internal/application/report"
	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/report"
	"github.com/jobbook/backend/internal/domain/shared"
	"github.com/jobbook/backend/internal/domain/shared/valueobject"
	"github.com/jobbook/backend/internal/infrastructure/cache"
	"github.com/jobbook/backend/internal/infrastructure/config"
	"github.com/jobbook/backend/internal/infrastructure/docstore"
	"github.com/jobbook/backend/internal/infrastructure/event"
	"github.com/jobbook/backend/internal/infrastructure/logger"
	"github.com/jobbook/backend/internal/infrastructure/persistence"
	"github.com/jobbook/backend/internal/infrastructure/telemetry"
	"github.com/jobbook/backend/internal/interfaces/http/handler"
	"github.com/jobbook/backend/internal/interfaces/http/middleware"
	"github.com/jobbook/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// stores is the storage backend the services run on
type stores struct {
	records     billing.RecordRepository
	expenses    billing.ExpenseRepository
	idempotency shared.IdempotencyStore
	checks      map[string]handler.HealthCheck
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Jobbook Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
		zap.String("store", cfg.Store.Backend),
	)

	loc, err := cfg.Billing.Location()
	if err != nil {
		log.Fatal("Invalid billing timezone", zap.Error(err))
	}
	weekStart, err := cfg.Billing.Weekday()
	if err != nil {
		log.Fatal("Invalid billing week start", zap.Error(err))
	}
	formatter, err := valueobject.NewCurrencyFormatter(cfg.Billing.Currency, cfg.Billing.Locale)
	if err != nil {
		log.Fatal("Invalid billing currency", zap.Error(err))
	}

	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = lp.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	metrics, err := telemetry.NewBillingMetricsFromProvider(mp)
	if err != nil {
		log.Fatal("Failed to create billing metrics", zap.Error(err))
	}

	st, err := openStores(cfg, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer st.close()

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(event.NewIdempotentHandler(billingapp.NewAuditHandler(log, metrics), st.idempotency, log))

	recordService := billingapp.NewRecordService(st.records, billing.NewDailySequenceAssigner(loc), formatter, log,
		billingapp.RecordServiceConfig{
			JobOrderPrefix: cfg.Billing.JobOrderPrefix,
			InvoicePrefix:  cfg.Billing.InvoicePrefix,
		})
	recordService.SetEventPublisher(bus)
	recordService.SetMetrics(metrics)

	expenseService := billingapp.NewExpenseService(st.expenses, formatter, log)
	expenseService.SetMetrics(metrics)

	aggregator := report.NewAggregator(report.NewCalendar(loc, weekStart), language.Make(cfg.Billing.Locale))
	reportService := reportapp.NewReportService(st.records, st.expenses, aggregator, formatter, log)
	reportService.SetMetrics(metrics)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.NewEngine(router.EngineConfig{
		HTTP: cfg.HTTP,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Meter:  mp,
		Logger: log,
	}, router.Handlers{
		JobOrders: handler.NewJobOrderHandler(recordService),
		Invoices:  handler.NewInvoiceHandler(recordService),
		Expenses:  handler.NewExpenseHandler(expenseService),
		Reports:   handler.NewReportHandler(reportService),
		Health:    handler.NewHealthHandler(st.checks),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := mp.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush metrics", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}
	if err := lp.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush logs", zap.Error(err))
	}

	log.Info("Server exited")
}

// openStores connects the configured backend. The gorm backend keeps event
// idempotency in memory; the redis backend shares it through Redis.
func openStores(cfg *config.Config, log *zap.Logger) (*stores, error) {
	switch cfg.Store.Backend {
	case "redis":
		client, err := docstore.NewClient(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		return &stores{
			records:     docstore.NewRecordStore(client, cfg.Store.KeyPrefix),
			expenses:    docstore.NewExpenseStore(client, cfg.Store.KeyPrefix),
			idempotency: cache.NewRedisIdempotencyStore(client, cfg.Store.KeyPrefix+":events:processed:"),
			checks: map[string]handler.HealthCheck{
				"redis": func(ctx context.Context) error { return client.Ping(ctx).Err() },
			},
			close: func() { closeRedis(client, log) },
		}, nil
	default:
		tracing := telemetry.DefaultDBTracingConfig()
		tracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
		tracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
		tracing.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
		if cfg.Database.DBName != "" {
			tracing.DBName = cfg.Database.DBName
		}

		db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{
			Logger:   log,
			LogLevel: cfg.Log.Level,
			Tracing:  telemetry.NewDBTracingPlugin(tracing, log),
		})
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

		idempotency := cache.NewInMemoryIdempotencyStore(0)
		return &stores{
			records:     persistence.NewGormRecordRepository(db.DB),
			expenses:    persistence.NewGormExpenseRepository(db.DB),
			idempotency: idempotency,
			checks: map[string]handler.HealthCheck{
				"database": db.PingContext,
			},
			close: func() {
				_ = idempotency.Close()
				if err := db.Close(); err != nil {
					log.Error("Error closing database", zap.Error(err))
				}
			},
		}, nil
	}
}

func closeRedis(client *redis.Client, log *zap.Logger) {
	if err := client.Close(); err != nil {
		log.Error("Error closing redis", zap.Error(err))
	}
}
