package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lensfinder/backend/config"
	"github.com/lensfinder/backend/internal/app"
	httpDelivery "github.com/lensfinder/backend/internal/delivery/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting LensFinder Backend v%s", httpDelivery.Version)
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize catalog source, cache and services
	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer application.Close()

	handler := httpDelivery.NewHandler(application.Calculator, application.Catalog)
	if err := httpDelivery.Run(ctx, cfg, handler); err != nil {
		log.Printf("Server error: %v", err)
		stop()
		application.Close()
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
