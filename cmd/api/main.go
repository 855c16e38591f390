package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradetracker/internal/api/config"
	delivery "tradetracker/internal/api/delivery/http"
	"tradetracker/internal/api/repository"
	"tradetracker/internal/api/service"
	"tradetracker/internal/email"
	"tradetracker/pkg/auth"
	"tradetracker/pkg/brevo"
	"tradetracker/pkg/logger"
	"tradetracker/pkg/postgres"
	"tradetracker/pkg/redis"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the trade-journal API service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting API Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	tradeRepo := repository.NewTradeRepository(db.DB)
	profileRepo := repository.NewProfileRepository(db.DB)
	returnRepo := repository.NewMonthlyReturnRepository(db.DB)
	balanceRepo := repository.NewMonthlyBalanceRepository(db.DB)
	feesRepo := repository.NewFeesConfigRepository(db.DB)
	emailLogRepo := repository.NewEmailLogRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)

	// Initialize email composer and sender
	composer, err := email.NewComposer()
	if err != nil {
		appLogger.Fatal("Failed to load email templates", logger.ErrorField(err))
	}
	sender := brevo.NewClient(brevo.Config{
		APIKey:    cfg.Email.APIKey,
		BaseURL:   cfg.Email.BaseURL,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	})

	// Initialize services
	metricsCache := service.NewMetricsCache(redisClient, appLogger)
	tradeSvc := service.NewTradeService(tradeRepo, profileRepo, metricsCache, appLogger)
	metricsSvc := service.NewMetricsService(tradeRepo, metricsCache, appLogger)
	profileSvc := service.NewProfileService(profileRepo, appLogger)
	monthlySvc := service.NewMonthlyService(returnRepo, balanceRepo, appLogger)
	feesSvc := service.NewFeesService(feesRepo, appLogger)
	emailSvc := service.NewEmailService(sender, composer, tradeRepo, emailLogRepo, appLogger)

	// Initialize token verifier
	cacheTTL, _ := time.ParseDuration(cfg.Auth.CacheTTL)
	verifier := auth.NewHTTPVerifier(auth.Config{
		TokenInfoURL: cfg.Auth.TokenInfoURL,
		CacheTTL:     cacheTTL,
	})

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.API.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	// Health check stays outside the authenticated group
	delivery.NewHealthHandler().RegisterRoutes(e)

	// Authenticated routes
	api := e.Group("", delivery.AuthMiddleware(verifier, userRepo, appLogger))
	delivery.NewTradeHandler(tradeSvc, appLogger).RegisterRoutes(api)
	delivery.NewMetricsHandler(metricsSvc, appLogger).RegisterRoutes(api)
	delivery.NewProfileHandler(profileSvc, appLogger).RegisterRoutes(api)
	delivery.NewMonthlyHandler(monthlySvc, appLogger).RegisterRoutes(api)
	delivery.NewFeesHandler(feesSvc, appLogger).RegisterRoutes(api)
	delivery.NewEmailHandler(emailSvc, appLogger).RegisterRoutes(api)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "api"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api CLI: %s\n", err)
		os.Exit(1)
	}
}
