package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fixed-assets-registry/internal/config"
	"fixed-assets-registry/internal/database"
	"fixed-assets-registry/internal/handler"
	"fixed-assets-registry/internal/logging"
	"fixed-assets-registry/internal/middleware"
	"fixed-assets-registry/internal/repository"
	"fixed-assets-registry/internal/router"
	"fixed-assets-registry/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the environment may already be populated
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "error", err)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	// Initialize database; nothing else starts without a connection
	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.ApplySchema {
		ctx, cancel := context.WithTimeout(context.Background(), database.PingTimeout)
		err := database.ApplySchema(ctx, db)
		cancel()
		if err != nil {
			logger.Error("failed to apply schema", "error", err)
			db.Close()
			os.Exit(1)
		}
		logger.Info("schema applied")
	}

	// Initialize repositories and service
	assets := repository.NewAssetRepository(db, cfg.Database.QueryTimeout)
	refs := repository.NewReferenceRepository(db, cfg.Database.QueryTimeout)
	svc := service.NewAssetService(assets, refs, logger).WithStore(db)

	h := handler.NewAssetHandler(svc, logger)

	// Setup router with security configuration
	r := router.NewRouter(h, cfg)

	// Wrap router with logging middleware
	loggingMW := middleware.NewLoggingMiddleware(logger)
	finalHandler := loggingMW.LogRequests(r)

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Port),
		Handler:        finalHandler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// Channel to listen for interrupt signal to gracefully shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			"port", cfg.Port,
			"rate_limit_rps", cfg.Security.RateLimitRPS,
			"rate_limit_burst", cfg.Security.RateLimitBurst,
			"cors", cfg.Security.EnableCORS,
			"query_timeout", cfg.Database.QueryTimeout)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-done:
		logger.Info("server is shutting down")
	case err := <-serverErr:
		logger.Error("server failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Security.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	} else {
		logger.Info("server exited gracefully")
	}
}
