// Package main provides the main entry point for the Shirfam ordering backend
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shirfam/shirfam-backend/app/handlers"
	"github.com/shirfam/shirfam-backend/app/middleware"
	"github.com/shirfam/shirfam-backend/app/router"
	"github.com/shirfam/shirfam-backend/app/services"
	businessflow "github.com/shirfam/shirfam-backend/business_flow"
	"github.com/shirfam/shirfam-backend/config"
	_ "github.com/shirfam/shirfam-backend/docs"
	"github.com/shirfam/shirfam-backend/models"
	"github.com/shirfam/shirfam-backend/repository"
	"github.com/shirfam/shirfam-backend/utils"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Shirfam application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger to a rotating file when configured
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output != "file" && cfg.Output != "both" {
		return
	}
	if cfg.FilePath == "" {
		cfg.FilePath = "logs/shirfam.log"
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	if cfg.Output == "both" {
		log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	} else {
		log.SetOutput(rotator)
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity.
// Returns nil when caching is disabled; the flows treat a nil client as
// cache-off and skip the resend cooldown.
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeNotificationService initializes the notification service
func initializeNotificationService(cfg *config.ProductionConfig) services.NotificationService {
	var smsService services.SMSService

	switch cfg.SMS.ProviderDomain {
	case "mock":
		smsService = services.NewMockSMSService()
	default:
		smsService = services.NewSMSService(&cfg.SMS)
	}

	return services.NewNotificationService(smsService, services.NewMockEmailProvider())
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(db)
	verificationRepo := repository.NewVerificationCodeRepository(db)
	sessionRepo := repository.NewCustomerSessionRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	counterRepo := repository.NewOrderCounterRepository(db)
	settingsRepo := repository.NewPlatformSettingsRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	if err := ensureAdminAccount(adminRepo, cfg.Admin); err != nil {
		return nil, err
	}

	// Initialize services
	notificationService := initializeNotificationService(cfg)

	captchaSvc, err := services.NewCaptchaServiceRotate(cfg.Security.CaptchaTTL, cfg.Security.CaptchaPadding, 300)
	if err != nil {
		return nil, err
	}

	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Initialize flows
	signupFlow := businessflow.NewSignupFlow(
		customerRepo,
		verificationRepo,
		sessionRepo,
		auditRepo,
		tokenService,
		notificationService,
		&cfg.Cache,
		rc,
		db,
	)

	loginFlow := businessflow.NewLoginFlow(
		customerRepo,
		verificationRepo,
		sessionRepo,
		auditRepo,
		tokenService,
		notificationService,
		&cfg.Cache,
		rc,
		db,
	)

	profileFlow := businessflow.NewProfileFlow(customerRepo)

	productFlow := businessflow.NewProductFlow(productRepo, cfg.Uploads)

	orderFlow := businessflow.NewOrderFlow(
		orderRepo,
		counterRepo,
		productRepo,
		customerRepo,
		settingsRepo,
		auditRepo,
		cfg.Orders,
		db,
	)

	settingsFlow := businessflow.NewPlatformSettingsFlow(settingsRepo, auditRepo)

	adminAuthFlow := businessflow.NewAdminAuthFlow(adminRepo, tokenService, captchaSvc)

	adminOrderFlow := businessflow.NewAdminOrderFlow(
		orderRepo,
		productRepo,
		customerRepo,
		auditRepo,
		db,
	)

	// Initialize handlers
	h := router.Handlers{
		Auth:      handlers.NewAuthHandler(signupFlow, loginFlow),
		Profile:   handlers.NewProfileHandler(profileFlow),
		Product:   handlers.NewProductHandler(productFlow),
		Order:     handlers.NewOrderHandler(orderFlow),
		Settings:  handlers.NewPlatformSettingsHandler(settingsFlow),
		AdminAuth: handlers.NewAuthAdminHandler(adminAuthFlow),
		AdminOrd:  handlers.NewOrderAdminHandler(adminOrderFlow),
		AdminProd: handlers.NewProductAdminHandler(productFlow),
	}

	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	appRouter := router.NewFiberRouter(cfg, h, authMiddleware)

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// ensureAdminAccount seeds the first admin when configured and absent
func ensureAdminAccount(adminRepo repository.AdminRepository, cfg config.AdminConfig) error {
	if cfg.Username == "" || cfg.InitialPassword == "" {
		return nil
	}

	existing, err := adminRepo.ByUsername(context.Background(), cfg.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := businessflow.HashAdminPassword(cfg.InitialPassword)
	if err != nil {
		return err
	}

	admin := models.Admin{
		UUID:         uuid.New(),
		Username:     cfg.Username,
		PasswordHash: hash,
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}
	if err := adminRepo.Save(context.Background(), &admin); err != nil {
		return err
	}

	log.Printf("Seeded admin account %q", cfg.Username)
	return nil
}
