// Package directory maintains the in-process cache of the full
// tradable-symbol list. The cache is read-through with a TTL and serves
// last-known-good data when the provider is unavailable, so directory
// outages degrade to stale or empty results rather than errors.
package directory

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/models"
	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/validation"
)

const (
	// DefaultTTL is how long a fetched directory payload is reused
	// before the next read triggers a refetch.
	DefaultTTL = 5 * time.Minute

	// maxSearchResults caps Search output to keep typeahead rendering cheap.
	maxSearchResults = 50
)

// Lister fetches the full symbol directory from the provider.
type Lister interface {
	ListStocks(ctx context.Context) ([]models.SymbolListing, error)
}

// Cache is the process-wide symbol directory cache. Construct one at the
// composition root and inject it into every dependent; it is safe for
// concurrent use.
type Cache struct {
	lister    Lister
	validator *validation.Validator
	ttl       time.Duration

	mu        sync.RWMutex
	listings  []models.SymbolListing
	fetchedAt time.Time
}

// NewCache creates a directory cache. A zero ttl uses DefaultTTL.
func NewCache(lister Lister, v *validation.Validator, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		lister:    lister,
		validator: v,
		ttl:       ttl,
	}
}

// GetAll returns the directory, refetching when the cached payload has aged
// past the TTL. It never returns an error: on fetch failure the last known
// payload is served, and with no payload at all the result is empty.
// Concurrent readers during a miss may each trigger a refetch; the fetch is
// idempotent so the last writer simply wins.
func (c *Cache) GetAll(ctx context.Context) []models.SymbolListing {
	c.mu.RLock()
	if c.listings != nil && time.Since(c.fetchedAt) < c.ttl {
		listings := c.listings
		c.mu.RUnlock()
		return listings
	}
	c.mu.RUnlock()

	listings, err := c.lister.ListStocks(ctx)
	if err != nil {
		log.Printf("directory: fetch failed, serving cached payload: %v", err)
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.listings
	}

	if c.validator != nil {
		listings = c.validator.FilterListings(listings)
	}

	c.mu.Lock()
	c.listings = listings
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return listings
}

// Search returns directory entries whose ticker or name contains the query,
// case-insensitively, capped at a fixed count.
func (c *Cache) Search(ctx context.Context, query string) []models.SymbolListing {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var matches []models.SymbolListing
	for _, listing := range c.GetAll(ctx) {
		if strings.Contains(strings.ToLower(listing.Ticker), query) ||
			strings.Contains(strings.ToLower(listing.Name), query) {
			matches = append(matches, listing)
			if len(matches) == maxSearchResults {
				break
			}
		}
	}
	return matches
}

// Lookup finds a single directory entry by ticker.
func (c *Cache) Lookup(ctx context.Context, ticker string) (models.SymbolListing, bool) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	for _, listing := range c.GetAll(ctx) {
		if listing.Ticker == ticker {
			return listing, true
		}
	}
	return models.SymbolListing{}, false
}

// Age reports how old the cached payload is, and whether one exists at all.
func (c *Cache) Age() (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.listings == nil {
		return 0, false
	}
	return time.Since(c.fetchedAt), true
}
