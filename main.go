// Package main provides the main entry point for the Anatolia Telecom back office API
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

	"github.com/anatolia-telecom/backoffice/app/handlers"
	"github.com/anatolia-telecom/backoffice/app/router"
	businessflow "github.com/anatolia-telecom/backoffice/business_flow"
	"github.com/anatolia-telecom/backoffice/config"
	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/repository"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application holds the wired components of the running service
type Application struct {
	router    router.Router
	config    *config.ProductionConfig
	stopFuncs []func()
}

func main() {
	log.Println("Starting back office application...")

	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := app.router.Start(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down gracefully...")

	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.router.GetApp().ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging directs the standard logger to stdout, a rotated file, or both
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output == "stdout" || cfg.FilePath == "" {
		return
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	switch cfg.Output {
	case "file":
		log.SetOutput(rotated)
	case "both":
		log.SetOutput(io.MultiWriter(os.Stdout, rotated))
	}
}

// initializeDatabase opens the database connection with connection pooling
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

// initializeCache opens a Redis connection when caching is enabled
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

	log.Printf("Redis connection established (db=%d)", cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor pings Redis periodically so connectivity loss shows
// up in the logs. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if client == nil {
		return cancel
	}
	go func() {
		ticker := time.NewTicker(30 * time.Second)
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

// initializeApplication wires repositories, flows, handlers and the router
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	stopFuncs = append(stopFuncs, startCacheHealthMonitor(context.Background(), rc))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	requestRepo := repository.NewPackageChangeRequestRepository(db)
	purchaseRepo := repository.NewServicePurchaseRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	itemRepo := repository.NewInvoiceItemRepository(db)
	remainingRepo := repository.NewRemainingUsesRepository(db)
	problemRepo := repository.NewProblemRepository(db)
	intentLogRepo := repository.NewAgentIntentLogRepository(db)

	// Business flows
	userFlow := businessflow.NewUserFlow(userRepo, subscriptionRepo)
	packageFlow := businessflow.NewPackageFlow(packageRepo, userRepo)
	subscriptionFlow := businessflow.NewSubscriptionFlow(db, userRepo, packageRepo, subscriptionRepo, requestRepo)
	billingFlow := businessflow.NewBillingFlow(db, userRepo, subscriptionRepo, purchaseRepo, invoiceRepo, itemRepo, cfg.Billing)
	purchaseFlow := businessflow.NewPurchaseFlow(userRepo, purchaseRepo)
	balanceFlow := businessflow.NewBalanceFlow(userRepo, remainingRepo)
	problemFlow := businessflow.NewProblemFlow(problemRepo)
	customerServiceFlow := businessflow.NewCustomerServiceFlow(userRepo, subscriptionRepo, remainingRepo, invoiceRepo, problemRepo, intentLogRepo)
	dashboardFlow := businessflow.NewDashboardFlow(userRepo, subscriptionRepo, purchaseRepo, invoiceRepo, requestRepo, problemRepo, intentLogRepo, rc, cfg.Cache)

	// HTTP layer
	r := router.NewFiberRouter(cfg, router.Handlers{
		User:            handlers.NewUserHandler(userFlow),
		Package:         handlers.NewPackageHandler(packageFlow),
		Subscription:    handlers.NewSubscriptionHandler(subscriptionFlow),
		Billing:         handlers.NewBillingHandler(billingFlow),
		Purchase:        handlers.NewPurchaseHandler(purchaseFlow),
		Balance:         handlers.NewBalanceHandler(balanceFlow),
		Problem:         handlers.NewProblemHandler(problemFlow),
		CustomerService: handlers.NewCustomerServiceHandler(customerServiceFlow),
		Dashboard:       handlers.NewDashboardHandler(dashboardFlow),
	})

	return &Application{
		router:    r,
		config:    cfg,
		stopFuncs: stopFuncs,
	}, nil
}
