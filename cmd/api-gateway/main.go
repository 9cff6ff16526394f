package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/noah-isme/campus-enrollment/api/swagger"
	"github.com/noah-isme/campus-enrollment/internal/handler"
	internalmiddleware "github.com/noah-isme/campus-enrollment/internal/middleware"
	"github.com/noah-isme/campus-enrollment/internal/repository"
	"github.com/noah-isme/campus-enrollment/internal/service"
	"github.com/noah-isme/campus-enrollment/pkg/cache"
	"github.com/noah-isme/campus-enrollment/pkg/config"
	"github.com/noah-isme/campus-enrollment/pkg/eventbus"
	"github.com/noah-isme/campus-enrollment/pkg/jobs"
	"github.com/noah-isme/campus-enrollment/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-enrollment/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-enrollment/pkg/middleware/requestid"
)

// @title Campus Enrollment API
// @version 1.0.0
// @description Course enrollment, rosters, grading and registrar operations
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := cache.NewRedis(ctx, cfg, logr)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	validate := validator.New()
	metrics := service.NewMetricsService()
	bus := eventbus.New(logr.Named("eventbus"))

	catalog := repository.NewCatalogRepository()
	if cfg.Catalog.SeedSampleData {
		if err := repository.SeedSampleData(catalog); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		logr.Info("sample catalog loaded")
	}

	var reportCacheClient *redis.Client
	if cfg.Reports.CacheEnabled {
		reportCacheClient = redisClient
	}
	cacheSvc := service.NewCacheService(repository.NewCacheRepository(reportCacheClient, logr), metrics, cfg.Reports.CacheTTL, logr, cfg.Reports.CacheEnabled)

	coordinator := service.NewEnrollmentCoordinator(catalog, nil, bus, metrics, logr.Named("enrollment"))
	catalogSvc := service.NewCatalogService(catalog, validate, logr)
	grades := service.NewGradeService(repository.NewGradeRepository(), catalog, bus, metrics, validate, logr.Named("grades"))
	reports := service.NewReportService(catalog, cacheSvc, logr)

	notifications := service.NewNotificationService(bus, logr)
	notifications.Attach(service.LoggingListener(logr.Named("notify")))
	notifications.Attach(service.MetricsListener(metrics))
	queueCfg := jobs.QueueConfig{
		Workers:    cfg.Events.AsyncWorkers,
		BufferSize: cfg.Events.AsyncBuffer,
		MaxRetries: cfg.Events.AsyncRetries,
		RetryDelay: 500 * time.Millisecond,
		Logger:     logr,
	}
	if cacheSvc.Enabled() {
		notifications.AttachAsync("report-cache", service.NewCacheInvalidationListener(reports, logr), queueCfg)
	}
	if cfg.Events.RelayEnabled {
		relay := repository.NewEventRelayRepository(redisClient)
		notifications.AttachAsync("event-relay", service.NewRelayListener(relay, cfg.Events.RelayChannelPrefix, logr), queueCfg)
	}
	// Queues outlive the signal context so Stop can drain them.
	notifications.Start(context.Background())

	probes := map[string]handler.ReadinessProbe{}
	if redisClient != nil {
		probes["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	handlers := handler.Handlers{
		Students: handler.NewStudentHandler(coordinator, catalogSvc, validate),
		Faculty:  handler.NewFacultyHandler(catalogSvc, grades),
		Admin:    handler.NewAdminHandler(coordinator, catalogSvc, reports, validate),
		Metrics:  handler.NewMetricsHandler(metrics, probes),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	handlers.RegisterOperational(r)
	handlers.RegisterAPI(r.Group(cfg.APIPrefix))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("api_prefix", cfg.APIPrefix))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logr.Info("shutting down", zap.Duration("timeout", cfg.Shutdown))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	serveErr := g.Wait()

	// Drain queued notifications before the bus refuses new ones.
	notifications.Stop()
	bus.Close()
	logr.Info("server stopped")
	return serveErr
}
