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

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "backoffice/docs"
	"backoffice/internal/caching"
	"backoffice/internal/common"
	"backoffice/internal/config"
	"backoffice/internal/finance"
	"backoffice/internal/handlers"
	"backoffice/internal/jobs/background"
	"backoffice/internal/logger"
	"backoffice/internal/middleware"
	"backoffice/internal/render"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
	"backoffice/internal/storage"
	"backoffice/pkg/database"
)

const version = "1.0.0"

//	@title			Backoffice API
//	@version		1.0
//	@description	Back-office API for company settings, catalog, invoicing, expenses and financial reports.
//	@BasePath		/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx := context.Background()

	// JWT configuration
	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		if cfg.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		jwtSecret = random.String(32)
		zlog.Warn("JWT_SECRET not set, using a generated secret; tokens will not survive a restart")
	}

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(cfg.Database.URL, zlog); err != nil {
			return err
		}
	}

	pool, err := database.NewPool(ctx, database.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
	}, zlog)
	if err != nil {
		return err
	}
	defer pool.Close()

	cache := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, zlog)
	defer func() { _ = cache.Close() }()
	if err := cache.Ping(ctx); err != nil {
		zlog.Warn("redis is not reachable; token refresh and report caching are degraded", zap.Error(err))
	}

	// Object storage is optional; without it uploads answer 503.
	var objectStore storage.ObjectStorage
	var storagePinger handlers.Pinger
	if cfg.StorageEnabled() {
		objectStore, err = storage.NewMinioStorage(storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
			URLExpiry: cfg.URLExpiry(),
		})
		if err != nil {
			return fmt.Errorf("failed to initialize object storage: %w", err)
		}
		if err := objectStore.EnsureBucket(ctx); err != nil {
			zlog.Warn("could not ensure media bucket", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		}
		storagePinger = objectStore
	} else {
		zlog.Info("object storage not configured, media uploads disabled")
	}
	media := services.NewMediaStore(objectStore, zlog)

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	companyRepo := repositories.NewCompanyRepo(pool)
	projectRepo := repositories.NewProjectRepo(pool)
	serviceRepo := repositories.NewServiceRepo(pool)
	employeeRepo := repositories.NewEmployeeRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	expenseRepo := repositories.NewExpenseRepo(pool)
	reportRepo := repositories.NewReportRepo(pool)

	// Create services
	authSvc := services.NewAuthService(cache, userRepo, zlog, jwtSecret, cfg.AccessTTL(), cfg.RefreshTTL())
	userSvc := services.NewUserService(userRepo, authSvc, media, zlog, cfg.Auth.ResetPasswordToken)
	companySvc := services.NewCompanyService(companyRepo, media)
	projectSvc := services.NewProjectService(projectRepo, media)
	catalogSvc := services.NewCatalogService(serviceRepo, employeeRepo)
	productSvc := services.NewProductService(productRepo)
	invoiceSvc := services.NewInvoiceService(invoiceRepo, cache, zlog)
	expenseSvc := services.NewExpenseService(expenseRepo, cache, zlog)
	financeSvc := finance.NewService(reportRepo, cache, cfg.ReportCacheTTL(), zlog)

	rbacSvc, err := services.NewRBACService()
	if err != nil {
		return err
	}

	var reportRenderer render.ReportRenderer
	if r, err := render.NewPDFRenderer(cfg.Report.FontPath); err != nil {
		zlog.Warn("PDF export disabled", zap.Error(err))
	} else {
		reportRenderer = r
		if cfg.Report.FontPath == "" {
			zlog.Info("no report font configured, PDF reports use the English layout")
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := middleware.NewMetrics(registry)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = common.NewRequestValidator()
	e.HTTPErrorHandler = common.HTTPErrorHandler(zlog)

	// Global middleware
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(zlog))
	e.Use(metrics.Middleware())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoMiddleware.BodyLimit(cfg.Server.BodyLimit))
	e.Use(middleware.VersionHeader(version))

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	handlers.RegisterRoutes(e, handlers.Handlers{
		Auth:    handlers.NewAuthHandlers(userSvc, authSvc),
		User:    handlers.NewUserHandlers(userSvc),
		Company: handlers.NewCompanyHandlers(companySvc),
		Product: handlers.NewProductHandlers(productSvc),
		Catalog: handlers.NewCatalogHandlers(catalogSvc),
		Project: handlers.NewProjectHandlers(projectSvc),
		Invoice: handlers.NewInvoiceHandlers(invoiceSvc),
		Expense: handlers.NewExpenseHandlers(expenseSvc),
		Finance: handlers.NewFinanceHandlers(financeSvc, companySvc, reportRenderer, zlog),
		Health:  handlers.NewHealthHandlers(pool, cache, storagePinger, version),
	}, handlers.Guards{
		Authenticate: []echo.MiddlewareFunc{
			middleware.JWTMiddleware(authSvc),
			middleware.ActiveUser(userRepo),
		},
		RBAC:         middleware.NewRBACMiddleware(rbacSvc, zlog),
		LoginLimiter: middleware.LoginRateLimiter(cfg.Server.LoginRatePerMinute),
	})

	scheduler, err := background.NewJobScheduler(financeSvc, cfg.ReportRefreshInterval(), zlog)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			zlog.Warn("scheduler shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	serverErr := make(chan error, 1)
	go func() {
		zlog.Info("backoffice server starting", zap.String("version", version), zap.String("addr", addr), zap.String("env", cfg.Server.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case sig := <-stop:
		zlog.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
