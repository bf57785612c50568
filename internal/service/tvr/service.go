package tvr

import (
	"context"
	"fmt"
	"log"

	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/domain"
)

// PanelAPI is the slice of the panel client the TVR service needs.
type PanelAPI interface {
	GetAdvertisingSpots(ctx context.Context, f domain.SpotFilters) ([]domain.Spot, error)
}

// Service is the dashboard-facing TVR entry point. Every calculation is
// mediated by the two-tier cache: memory first, persistent store second,
// panel fetch and compute last.
type Service struct {
	panel PanelAPI
	cache *Cache
}

// NewService creates a TVR service backed by the given panel client and cache.
func NewService(panel PanelAPI, cache *Cache) *Service {
	return &Service{panel: panel, cache: cache}
}

// CalculateTVR returns the global-ratio TVR for the given filter set,
// serving from cache when a fresh entry exists.
func (s *Service) CalculateTVR(ctx context.Context, f domain.SpotFilters) (domain.TVRResult, error) {
	key := f.CacheKey()

	if result, ok := s.cache.Get(ctx, key); ok {
		return result, nil
	}

	spots, err := s.panel.GetAdvertisingSpots(ctx, f)
	if err != nil {
		return domain.TVRResult{}, fmt.Errorf("fetch spots: %w", err)
	}

	result := CalculateGlobal(spots, f.BuyingAudience)
	log.Printf("[tvr.Service] Computed TVR %.1f from %d spots (key %s)", result.TVR, result.SpotCount, key)

	s.cache.Put(ctx, key, result)
	return result, nil
}

// CacheStats exposes cache occupancy for the admin surface.
func (s *Service) CacheStats(ctx context.Context) Stats {
	return s.cache.Stats(ctx)
}

// ClearCache empties both cache tiers.
func (s *Service) ClearCache(ctx context.Context) {
	s.cache.Clear(ctx)
}
