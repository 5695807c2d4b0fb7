package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/lensfinder/backend/internal/domain"
)

const catalogCacheKey = "catalog:lenses"

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	SourceName         string
	CacheTTL           time.Duration // 0 disables the snapshot cache
	EnableDebugLogging bool
}

// CatalogService resolves the lens catalog from a source, optionally
// keeping a short-lived snapshot. It never retries; that is the source's job.
// Snapshots are keyed by the caller's bearer token, so a token the source
// never accepted cannot read a snapshot loaded with another one.
type CatalogService struct {
	source             domain.CatalogSource
	cache              domain.CacheRepository
	sourceName         string
	cacheTTL           time.Duration
	enableDebugLogging bool
	generation         atomic.Uint64
}

// NewCatalogService creates a new catalog service. cache may be nil.
func NewCatalogService(source domain.CatalogSource, cache domain.CacheRepository, config CatalogServiceConfig) *CatalogService {
	name := config.SourceName
	if name == "" {
		name = "catalog"
	}
	return &CatalogService{
		source:             source,
		cache:              cache,
		sourceName:         name,
		cacheTTL:           config.CacheTTL,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Lenses returns the current catalog. The returned slice is the caller's to keep.
func (s *CatalogService) Lenses(ctx context.Context) ([]domain.LensProduct, error) {
	if s.source == nil {
		return nil, &domain.CatalogError{Source: s.sourceName, Err: errors.New("no catalog source configured")}
	}

	key := s.cacheKey(ctx)
	if s.cachingEnabled() {
		if lenses, ok := s.getFromCache(ctx, key); ok {
			if s.enableDebugLogging {
				log.Printf("[CATALOG] Snapshot hit: %d lenses", len(lenses))
			}
			return lenses, nil
		}
	}

	lenses, err := s.source.ListLenses(ctx)
	if err != nil {
		return nil, &domain.CatalogError{Source: s.sourceName, Err: err}
	}
	if lenses == nil {
		lenses = []domain.LensProduct{}
	}

	if s.cachingEnabled() {
		if err := s.cache.Set(ctx, key, lenses, s.cacheTTL); err != nil {
			log.Printf("[CATALOG] Failed to store snapshot: %v", err)
		}
	}

	if s.enableDebugLogging {
		log.Printf("[CATALOG] Loaded %d lenses from %s", len(lenses), s.sourceName)
	}
	return cloneLenses(lenses), nil
}

// Get returns a single lens by ID
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.LensProduct, error) {
	lenses, err := s.Lenses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range lenses {
		if lenses[i].ID == id {
			return &lenses[i], nil
		}
	}
	return nil, domain.ErrLensNotFound
}

// Invalidate drops every cached snapshot so the next call hits the source.
// Snapshots of other tokens are orphaned and expire with their TTL.
func (s *CatalogService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	key := s.cacheKey(ctx)
	s.generation.Add(1)
	return s.cache.Delete(ctx, key)
}

// cacheKey scopes the snapshot to the current generation and the caller's
// token. Requests without a token share the source's own credentials.
func (s *CatalogService) cacheKey(ctx context.Context) string {
	key := fmt.Sprintf("%s:%d", catalogCacheKey, s.generation.Load())
	if token, ok := domain.TokenFromContext(ctx); ok {
		sum := sha256.Sum256([]byte(token))
		key += ":" + hex.EncodeToString(sum[:16])
	}
	return key
}

func (s *CatalogService) cachingEnabled() bool {
	return s.cache != nil && s.cacheTTL > 0
}

// getFromCache reads the snapshot back into lens products
func (s *CatalogService) getFromCache(ctx context.Context, key string) ([]domain.LensProduct, bool) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	if lenses, ok := value.([]domain.LensProduct); ok {
		return cloneLenses(lenses), true
	}

	// The memory cache stores values as generic JSON, like Redis would
	data, err := json.Marshal(value)
	if err != nil {
		return nil, false
	}
	var lenses []domain.LensProduct
	if err := json.Unmarshal(data, &lenses); err != nil {
		return nil, false
	}
	return lenses, true
}

func cloneLenses(lenses []domain.LensProduct) []domain.LensProduct {
	out := make([]domain.LensProduct, len(lenses))
	copy(out, lenses)
	return out
}
