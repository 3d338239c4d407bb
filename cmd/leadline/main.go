package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/legacyprime/leadline/internal/brain"
	"github.com/legacyprime/leadline/internal/config"
	"github.com/legacyprime/leadline/internal/crm"
	"github.com/legacyprime/leadline/internal/dialogue"
	"github.com/legacyprime/leadline/internal/httpapi"
	"github.com/legacyprime/leadline/internal/monitor"
	"github.com/legacyprime/leadline/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	store, err := crm.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("crm store init failed: %v", err)
	}
	defer store.Close()
	if cfg.DatabaseURL == "" {
		log.Printf("crm store: in-memory (DATABASE_URL not set; leads will not survive restarts)")
	} else {
		log.Printf("crm store: postgres")
	}

	var completer brain.Completer
	if cfg.OpenAIAPIKey == "" {
		completer = brain.NewMock()
		log.Printf("completion provider: mock (OPENAI_API_KEY not set)")
	} else {
		completer = brain.NewOpenAIClient(brain.OpenAIConfig{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			Temperature: cfg.OpenAITemperature,
			Timeout:     cfg.OpenAITimeout,
		})
		log.Printf("completion provider: %s (%s)", cfg.OpenAIModel, cfg.OpenAIBaseURL)
	}

	recorder := crm.NewRecorder(store, cfg.QualifyThresholdUSD, metrics)
	controller := dialogue.NewController(completer, recorder, metrics, cfg.CompanyName)
	hub := monitor.NewHub()

	api := httpapi.New(cfg, controller, hub, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
