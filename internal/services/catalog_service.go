// Package services wires the pure domain logic to the category and record
// ports, adding the session-level concerns the handlers need: catalog
// memoization and per-leg submission reporting.
package services

import (
	"context"
	"log/slog"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

const catalogCacheKey = "catalog"

// CatalogService serves the category table, memoized behind a TTL cache so
// the backend is fetched once per session instead of on every selector
// change.
type CatalogService struct {
	reader ports.CatalogReader
	cache  *cache.LRUCache[core.Catalog]
}

func NewCatalogService(reader ports.CatalogReader, ttl time.Duration) *CatalogService {
	return &CatalogService{
		reader: reader,
		cache:  cache.NewLRUCache[core.Catalog](1, ttl),
	}
}

// Load returns the current catalog. On a fetch failure it returns an empty
// catalog together with the error, so callers can render empty selectors
// while still reporting what went wrong. Failed fetches are not cached.
func (s *CatalogService) Load(ctx context.Context) (core.Catalog, error) {
	if cat, ok := s.cache.Get(catalogCacheKey); ok {
		return cat, nil
	}

	entries, err := s.reader.Categories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "category fetch failed", "error", err)
		return core.NewCatalog(nil), err
	}

	cat := core.NewCatalog(entries)
	s.cache.Set(catalogCacheKey, cat)
	return cat, nil
}

// Refresh drops the memoized catalog and fetches a fresh one.
func (s *CatalogService) Refresh(ctx context.Context) (core.Catalog, error) {
	s.cache.Delete(catalogCacheKey)
	return s.Load(ctx)
}
