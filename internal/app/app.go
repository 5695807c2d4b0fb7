// Package app wires configuration into catalog sources and services. Both
// the HTTP server and the CLI start from here.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/lensfinder/backend/config"
	"github.com/lensfinder/backend/internal/domain"
	"github.com/lensfinder/backend/internal/infrastructure/cache"
	"github.com/lensfinder/backend/internal/infrastructure/catalogdb"
	"github.com/lensfinder/backend/internal/infrastructure/catalogfile"
	"github.com/lensfinder/backend/internal/infrastructure/inventory"
	"github.com/lensfinder/backend/internal/usecase"
)

// App holds the wired services and whatever must be closed on shutdown
type App struct {
	Calculator *usecase.CalculatorService
	Catalog    *usecase.CatalogService
	closers    []func() error
}

// New builds the catalog source named in cfg and the services on top of it
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	source, err := a.buildSource(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	var snapshots domain.CacheRepository
	if cfg.Cache.Type == "memory" && cfg.Cache.TTL > 0 {
		memoryCache := cache.NewMemoryCache()
		a.closers = append(a.closers, memoryCache.Close)
		snapshots = memoryCache
		log.Printf("Catalog snapshot cache: memory, TTL %s", cfg.Cache.TTL)
	}

	a.Catalog = usecase.NewCatalogService(source, snapshots, usecase.CatalogServiceConfig{
		SourceName:         cfg.Catalog.Source,
		CacheTTL:           cfg.Cache.TTL,
		EnableDebugLogging: cfg.Calculator.Debug,
	})
	a.Calculator = usecase.NewCalculatorService(a.Catalog, usecase.CalculatorServiceConfig{
		DefaultVertexDistance: cfg.Calculator.DefaultVertexDistance,
		EnableDebugLogging:    cfg.Calculator.Debug,
	})
	return a, nil
}

func (a *App) buildSource(ctx context.Context, cfg *config.Config) (domain.CatalogSource, error) {
	switch cfg.Catalog.Source {
	case config.SourceAPI:
		client := inventory.NewClient(inventory.ClientConfig{
			BaseURL:    cfg.Catalog.BaseURL,
			Token:      cfg.Catalog.Token,
			Timeout:    cfg.Catalog.Timeout,
			RateLimit:  cfg.Catalog.RateLimit,
			Burst:      cfg.Catalog.Burst,
			MaxRetries: cfg.Catalog.MaxRetries,
		})
		if cfg.Server.Environment == "development" || cfg.Calculator.Debug {
			client.SetDebug(true)
		}
		log.Printf("Catalog source: inventory API at %s", cfg.Catalog.BaseURL)
		return client, nil

	case config.SourceFile:
		log.Printf("Catalog source: file %s", cfg.Catalog.Path)
		return catalogfile.NewSource(cfg.Catalog.Path), nil

	case config.SourceSQL:
		source, err := catalogdb.Open(ctx, cfg.Catalog.Driver, cfg.Catalog.DSN, cfg.Catalog.Table)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, source.Close)
		log.Printf("Catalog source: %s table %s", cfg.Catalog.Driver, cfg.Catalog.Table)
		return source, nil

	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}

// Close releases database handles and background goroutines
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}
	a.closers = nil
}
