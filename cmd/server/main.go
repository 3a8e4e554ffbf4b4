package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "mitramandal-backend/internal/api/http"
	"mitramandal-backend/internal/cache"
	"mitramandal-backend/internal/config"
	"mitramandal-backend/internal/jobs"
	"mitramandal-backend/internal/ledger"
	"mitramandal-backend/internal/logger"
	"mitramandal-backend/internal/repository/postgres"
	"mitramandal-backend/internal/scheduler"
	"mitramandal-backend/internal/security"
	"mitramandal-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Mitra Mandal ledger backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Cache configuration", "ttl", cfg.CacheTTL())

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if cfg.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)
	repos := store.Repositories()

	// Initialize read cache
	readCache := cache.New(cfg.CacheTTL())

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	// Initialize Services
	clock := ledger.SystemClock()
	ids := service.NewIDGenerator()
	lookup := service.NewReadThrough(repos, readCache)

	memberSvc := service.NewMemberService(repos, store, lookup, readCache, clock, ids)
	itemSvc := service.NewItemService(repos, lookup, int32(cfg.Ledger.DefaultPageSize), int32(cfg.Ledger.MaxPageSize))
	transactionSvc := service.NewTransactionService(store, lookup, readCache, clock, ids)
	adminSvc := service.NewAdminService(repos, store)
	cacheSvc := service.NewCacheService(repos, readCache)

	ctx := context.Background()
	if cfg.Ledger.SeedDefaultAdmin {
		if _, err := adminSvc.SeedDefaultAdmin(ctx); err != nil {
			logger.Error("Failed to seed default admin", "error", err)
			log.Fatalf("Failed to seed default admin: %v", err)
		}
	}

	// Warm the read cache
	if err := cacheSvc.Reload(ctx); err != nil {
		logger.Warn("Initial cache load failed, serving from database", "error", err)
	}

	// Initialize Scheduler
	var cronScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobRunner := jobs.NewJobRunner(&jobs.Services{Cache: cacheSvc, Admin: adminSvc}, cfg)
		cronScheduler = scheduler.NewScheduler(jobRunner)
		cronScheduler.Start()
	}

	// Set up HTTP server
	handler := httpapi.NewHandler(memberSvc, itemSvc, transactionSvc, adminSvc, cacheSvc)
	auth := httpapi.NewAuthMiddleware(tokenManager, memberSvc, adminSvc)
	router := httpapi.NewRouter(handler, httpapi.NewHealthHandler(store), auth)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down...")
	if cronScheduler != nil {
		cronScheduler.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
