package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/globapay/txfeed/internal/api/handlers"
	"github.com/globapay/txfeed/internal/api/middleware"
	"github.com/globapay/txfeed/internal/banking"
	"github.com/globapay/txfeed/internal/classify"
	"github.com/globapay/txfeed/internal/config"
	"github.com/globapay/txfeed/internal/connections"
	"github.com/globapay/txfeed/internal/feed"
	"github.com/globapay/txfeed/internal/logger"
)

func main() {
	cfg := config.Load()

	// Parse command-line flags
	var (
		port            = flag.String("port", cfg.Port, "HTTP server port")
		connectionsFile = flag.String("connections", cfg.ConnectionsFile, "path to the connection registry file")
	)
	flag.Parse()

	// Initialize logger
	log := logger.New()

	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("No GEMINI_API_KEY configured - all transactions will be categorized as Other")
	}

	// Wire the engine: registry -> banking client -> fetch/merge -> classify
	source := connections.NewFileSource(*connectionsFile, log)
	bankClient := banking.NewRESTClient(cfg.BankAPIBaseURL, cfg.BankClientID, cfg.BankSecret, cfg.FetchTimeout)
	fetcher := feed.NewFetcher(bankClient, log)
	merger := feed.NewMerger(fetcher, log)

	var labeler classify.Labeler
	if cfg.GeminiAPIKey != "" {
		labeler = classify.NewGeminiLabeler(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	classifier := classify.New(labeler, cfg.ClassifyTimeout, log)

	// Initialize handlers
	feedHandler := handlers.NewFeedHandler(source, merger, log)
	analyticsHandler := handlers.NewAnalyticsHandler(source, merger, classifier, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			feedHandler.ListTransactions(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/analytics/spending", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			analyticsHandler.ListSpending(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"ok":     true,
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.Auth(mux),
				),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
