package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	domainconfig "github.com/rickerduniya/Sayanho-sub000/domain/config"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/config"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/di"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/solver"
	"github.com/rickerduniya/Sayanho-sub000/interfaces/http/rest"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize dependency container
	container, cleanup, err := di.InitializeContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	logger := container.Logger

	// Hot reload of engine tunables
	if cfg.ConfigFile != "" {
		watcher, err := config.NewConfigWatcher(cfg.Environment, cfg.ConfigFile, logger)
		if err != nil {
			logger.Fatal("Failed to watch config file", zap.String("path", cfg.ConfigFile), zap.Error(err))
		}
		watcher.OnChange(func(engine *domainconfig.DomainConfig) error {
			return container.Editor.ApplyConfig(engine)
		})
		watcher.Start()
		defer watcher.Stop()
	}

	// Create router
	router := rest.NewRouter(
		container.CommandBus,
		container.QueryBus,
		container.ErrorHandler,
		container.Codec,
		container.EventBus,
		container.Metrics,
		container.Validator,
		rest.Options{
			EnableCORS:     cfg.EnableCORS,
			AllowedOrigins: splitOrigins(os.Getenv("CORS_ALLOWED_ORIGINS")),
			EnableMetrics:  cfg.EnableMetrics,
			Ready:          solverReady(container.Solver),
		},
		logger,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.Bool("solver", cfg.SolverURL != ""),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	// Stops pending recalculation and drains background layout removals
	cleanup()

	if err := logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}

// solverReady reports not-ready while the solver circuit is open
func solverReady(s interface{}) func() error {
	breaker, ok := s.(*solver.BreakerSolver)
	if !ok {
		return nil
	}
	return func() error {
		if breaker.State() == gobreaker.StateOpen {
			return apperrors.NewUnavailableError("solver")
		}
		return nil
	}
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
