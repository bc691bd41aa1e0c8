package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codyseavey/asin-analyzer/internal/api"
	"github.com/codyseavey/asin-analyzer/internal/config"
	"github.com/codyseavey/asin-analyzer/internal/services"
)

func main() {
	// Load .env (if present) before reading configuration
	config.LoadEnvFile()
	cfg := config.Load()

	// Initialize Keepa service (product fetches and seller lookups)
	keepaService := services.NewKeepaService(cfg.Keepa)

	// Initialize analysis service
	analysisService := services.NewAnalysisService(keepaService, keepaService, cfg.SellerLookupConcurrency)

	// Setup router
	router := api.SetupRouter(cfg, analysisService, keepaService)

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s (Keepa domain %d)", cfg.Port, cfg.Keepa.DomainID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
