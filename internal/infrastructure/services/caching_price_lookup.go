package services

import (
	"context"
	"time"

	"github.com/storechecker/storechecker/internal/domain/entities"
	"github.com/storechecker/storechecker/internal/usecases/ports/services"
	"github.com/storechecker/storechecker/pkg/utils"
)

// CachingPriceLookup memoizes quotes of another lookup for a fixed TTL.
// Failed lookups are not cached.
type CachingPriceLookup struct {
	next  services.PriceLookupService
	cache *utils.TTLCache[entities.PriceQuote]
}

// NewCachingPriceLookup wraps next with a quote cache
func NewCachingPriceLookup(next services.PriceLookupService, ttl time.Duration) *CachingPriceLookup {
	return &CachingPriceLookup{
		next:  next,
		cache: utils.NewTTLCache[entities.PriceQuote](ttl),
	}
}

// Fetch returns a cached quote when one is fresh, otherwise asks the wrapped lookup
func (l *CachingPriceLookup) Fetch(ctx context.Context, id string) (*entities.PriceQuote, error) {
	if quote, ok := l.cache.Get(id); ok {
		return &quote, nil
	}
	quote, err := l.next.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	l.cache.Set(id, *quote)
	l.cache.CleanupExpired()
	return quote, nil
}
