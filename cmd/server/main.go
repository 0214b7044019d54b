package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sentinel-portal/config"
	"sentinel-portal/handlers"
	"sentinel-portal/logging"
	"sentinel-portal/service"
	"sentinel-portal/storage"
)

func main() {
	// Try current directory first, then project root (relative to cmd/server/)
	cfg, err := config.Load(".env", "../../.env")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize staging storage
	stagingStorage, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	logger.Info("Storage initialized", zap.String("type", string(cfg.Storage.Type)))

	// Initialize services
	decisionClient := service.NewHTTPDecisionClient(cfg.Upstream.URL,
		service.DecisionWithTimeout(cfg.Upstream.Timeout),
		service.DecisionWithLogger(logger.Named("decision")),
	)

	analysisService := service.NewAnalysisService(
		service.AnalysisWithDecisionClient(decisionClient),
		service.AnalysisWithStorage(stagingStorage),
		service.AnalysisWithRunTracker(service.NewRunTracker(cfg.MaxTrackedRuns)),
		service.AnalysisWithLogger(logger.Named("analysis")),
	)

	// Initialize handlers
	analysisHandler := handlers.NewAnalysisHandler(analysisService, cfg.MaxUploadBytes)
	memoHandler := handlers.NewMemoHandler()

	// Setup Gin router
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(logging.GinMiddleware(logger.Named("http")), gin.Recovery())
	handlers.RegisterRoutes(r, analysisHandler, memoHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("upstream", cfg.Upstream.URL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
