package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sukraa/prescription-ai-backend/internal/prescription/extractor"
	"github.com/sukraa/prescription-ai-backend/internal/prescription/fetcher"
	"github.com/sukraa/prescription-ai-backend/internal/prescription/handler"
	"github.com/sukraa/prescription-ai-backend/internal/prescription/imaging"
	"github.com/sukraa/prescription-ai-backend/internal/prescription/service"
	"github.com/sukraa/prescription-ai-backend/pkg/config"
	"github.com/sukraa/prescription-ai-backend/pkg/httputil"
	"github.com/sukraa/prescription-ai-backend/pkg/logger"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("extraction-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("extraction-service", cfg.Server.Environment)
	log.Info().Msg("starting Prescription Extraction Service")

	// Initialize the extraction client
	ext, err := extractor.NewOpenAIExtractor(&cfg.OpenAI, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create extraction client")
	}

	// Initialize the pipeline
	fetch := fetcher.New(&cfg.Fetch, log)
	svc := service.New(imaging.OptionsFromConfig(&cfg.Image), ext, fetch, log)
	h := handler.NewHandler(svc, cfg.Server.MaxUploadBytes, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"service": "extraction-service",
			"model":   cfg.OpenAI.Model,
		})
	})

	// API routes
	h.Routes(r)

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
