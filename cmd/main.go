package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/Tushar365/reportappmedghor/internal/caching"
	"github.com/Tushar365/reportappmedghor/internal/config"
	"github.com/Tushar365/reportappmedghor/internal/handlers"
	"github.com/Tushar365/reportappmedghor/internal/jobs/background"
	"github.com/Tushar365/reportappmedghor/internal/middleware"
	"github.com/Tushar365/reportappmedghor/internal/models"
	"github.com/Tushar365/reportappmedghor/internal/rendering"
	"github.com/Tushar365/reportappmedghor/internal/repositories"
	"github.com/Tushar365/reportappmedghor/internal/services"
	"github.com/Tushar365/reportappmedghor/pkg/database"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", os.Getenv("MEDGHOR_CONFIG"), "path to a TOML config file")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "medghor").Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.Server.LogLevel); err == nil {
		logger = logger.Level(level)
	}
	zerolog.DefaultContextLogger = &logger
	if cfg.GeneratedSecret {
		logger.Warn().Msg("JWT_SECRET not set, using a generated secret; tokens will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)

	var storage services.DocumentStorage
	if cfg.StorageEnabled() {
		storage, err = services.NewMinioStorage(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey,
			cfg.Storage.Bucket, cfg.Storage.UseSSL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize document storage")
		}
		if err := storage.EnsureBucketExists(ctx); err != nil {
			logger.Warn().Err(err).Str("bucket", cfg.Storage.Bucket).Msg("document bucket unavailable, continuing")
		}
	} else {
		logger.Info().Msg("document storage disabled")
	}

	// Repositories
	reportRepo := repositories.NewReportRepo(pool)
	usageRepo := repositories.NewProductUsageRepo(pool)
	userRepo := repositories.NewUserRepo(pool)

	// Services
	authSvc := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.TokenTTL())
	reportSvc := services.NewReportService(reportRepo, usageRepo, rendering.NewRenderer(), storage, cacheSvc,
		services.ReportServiceConfig{
			ContactNumber: cfg.Reports.ContactNumber,
			URLExpiry:     cfg.URLExpiry(),
			PopularTTL:    cfg.PopularTTL(),
		})
	editorSvc := services.NewEditorService(cacheSvc, reportRepo, usageRepo, cfg.EditorTTL())

	scheduler, err := background.NewJobScheduler(reportSvc, cfg.DocumentRetention(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create job scheduler")
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			logger.Error().Err(err).Msg("scheduler shutdown failed")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		ExposeHeaders: []string{echo.HeaderContentDisposition, "X-Report-ID", "X-Document-URL"},
	}))
	e.Use(echoMiddleware.RemoveTrailingSlash())

	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, storage, version)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	registerRoutes(e, routeDeps{
		auth:    handlers.NewAuthHandlers(authSvc),
		editor:  handlers.NewEditorHandlers(editorSvc),
		reports: handlers.NewReportHandlers(reportSvc, editorSvc),
		product: handlers.NewProductHandlers(reportSvc),
		jobs:    handlers.NewJobHandlers(scheduler),
		authSvc: authSvc,
		audit:   middleware.NewAuditMiddleware(logger),
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info().Str("version", version).Str("addr", addr).Msg("medghor server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

type routeDeps struct {
	auth    *handlers.AuthHandlers
	editor  *handlers.EditorHandlers
	reports *handlers.ReportHandlers
	product *handlers.ProductHandlers
	jobs    *handlers.JobHandlers
	authSvc services.AuthService
	audit   *middleware.AuditMiddleware
}

func registerRoutes(e *echo.Echo, d routeDeps) {
	versionMiddleware := middleware.NewVersionMiddleware()

	v1 := e.Group("/v1")
	v1.Use(versionMiddleware.VersionHeader("v1"))

	auth := v1.Group("/auth")
	auth.POST("/register", d.auth.Register)
	auth.POST("/login", d.auth.Login)

	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(d.authSvc))
	protected.Use(d.audit.AuditRequest())

	viewer := middleware.RequireRole(models.RoleViewer)
	manager := middleware.RequireRole(models.RoleManager)
	admin := middleware.RequireRole(models.RoleAdmin)

	protected.GET("/me", d.auth.Me)
	protected.PUT("/me", d.auth.UpdateProfile)
	protected.PUT("/me/password", d.auth.ChangePassword)
	protected.PUT("/users/:id/roles", d.auth.SetRoles, admin)

	protected.GET("/editor", d.editor.GetEditor, manager)
	protected.POST("/editor/lines", d.editor.AddLine, manager)
	protected.POST("/editor/quick-add", d.editor.QuickAdd, manager)
	protected.DELETE("/editor/lines/:index", d.editor.RemoveLine, manager)
	protected.DELETE("/editor/lines", d.editor.Clear, manager)

	protected.POST("/reports/generate", d.reports.Generate, manager)
	protected.GET("/reports", d.reports.ListReports, viewer)
	protected.GET("/reports/:id", d.reports.GetReport, viewer)
	protected.GET("/reports/:id/pdf", d.reports.DownloadPDF, viewer)
	protected.GET("/reports/:id/xlsx", d.reports.DownloadSpreadsheet, viewer)
	protected.POST("/reports/:id/load", d.reports.LoadIntoEditor, manager)
	protected.DELETE("/reports/:id", d.reports.DeleteReport, manager)

	protected.GET("/products/popular", d.product.PopularProducts, viewer)

	protected.GET("/jobs", d.jobs.ListJobs, admin)
	protected.POST("/jobs/:name/run", d.jobs.RunJob, admin)
}
