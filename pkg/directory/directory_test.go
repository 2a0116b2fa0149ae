package directory

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/models"
	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/validation"
)

type fakeLister struct {
	calls    int32
	listings []models.SymbolListing
	err      error
}

func (f *fakeLister) ListStocks(ctx context.Context) ([]models.SymbolListing, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.listings, nil
}

func sampleListings() []models.SymbolListing {
	return []models.SymbolListing{
		{Ticker: "PETR4", Name: "PETROBRAS PN", Close: 38.52, Change: 1.2, Volume: 52000000},
		{Ticker: "VALE3", Name: "VALE ON", Close: 61.10, Change: -0.5, Volume: 30000000},
		{Ticker: "ITUB4", Name: "ITAU UNIBANCO PN", Close: 33.00, Change: 0.1, Volume: 25000000},
	}
}

func TestGetAllCachesWithinTTL(t *testing.T) {
	lister := &fakeLister{listings: sampleListings()}
	cache := NewCache(lister, validation.New(), time.Minute)
	ctx := context.Background()

	first := cache.GetAll(ctx)
	second := cache.GetAll(ctx)

	if got := atomic.LoadInt32(&lister.calls); got != 1 {
		t.Errorf("expected 1 backing fetch for two reads within TTL, got %d", got)
	}
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("unexpected payload sizes: %d, %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("payloads differ at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGetAllRefetchesAfterTTL(t *testing.T) {
	lister := &fakeLister{listings: sampleListings()}
	cache := NewCache(lister, validation.New(), 10*time.Millisecond)
	ctx := context.Background()

	cache.GetAll(ctx)
	time.Sleep(20 * time.Millisecond)
	cache.GetAll(ctx)

	if got := atomic.LoadInt32(&lister.calls); got != 2 {
		t.Errorf("expected exactly 2 fetches across the TTL boundary, got %d", got)
	}
	if age, ok := cache.Age(); !ok || age > time.Second {
		t.Errorf("expected fresh timestamp after refetch, got age=%v ok=%v", age, ok)
	}
}

func TestGetAllServesStaleOnFailure(t *testing.T) {
	lister := &fakeLister{listings: sampleListings()}
	cache := NewCache(lister, validation.New(), 10*time.Millisecond)
	ctx := context.Background()

	if got := cache.GetAll(ctx); len(got) != 3 {
		t.Fatalf("seed fetch failed: %d listings", len(got))
	}

	lister.err = errors.New("provider down")
	time.Sleep(20 * time.Millisecond)

	stale := cache.GetAll(ctx)
	if len(stale) != 3 {
		t.Errorf("expected last-known-good payload, got %d listings", len(stale))
	}
}

func TestGetAllEmptyWhenNeverFetched(t *testing.T) {
	lister := &fakeLister{err: errors.New("provider down")}
	cache := NewCache(lister, validation.New(), time.Minute)

	if got := cache.GetAll(context.Background()); len(got) != 0 {
		t.Errorf("expected empty directory, got %d listings", len(got))
	}
}

func TestSearch(t *testing.T) {
	lister := &fakeLister{listings: sampleListings()}
	cache := NewCache(lister, validation.New(), time.Minute)
	ctx := context.Background()

	byTicker := cache.Search(ctx, "petr")
	if len(byTicker) != 1 || byTicker[0].Ticker != "PETR4" {
		t.Errorf("ticker search failed: %+v", byTicker)
	}

	byName := cache.Search(ctx, "itau")
	if len(byName) != 1 || byName[0].Ticker != "ITUB4" {
		t.Errorf("name search failed: %+v", byName)
	}

	if got := cache.Search(ctx, ""); got != nil {
		t.Errorf("empty query should return nothing, got %d", len(got))
	}
}

func TestSearchCapsResults(t *testing.T) {
	var listings []models.SymbolListing
	for i := 0; i < 80; i++ {
		listings = append(listings, models.SymbolListing{
			Ticker: fmt.Sprintf("TST%d", i),
			Name:   "TEST COMPANY",
			Close:  10,
			Volume: 100,
		})
	}
	lister := &fakeLister{listings: listings}
	cache := NewCache(lister, validation.New(), time.Minute)

	if got := cache.Search(context.Background(), "tst"); len(got) != maxSearchResults {
		t.Errorf("expected %d capped results, got %d", maxSearchResults, len(got))
	}
}

func TestLookup(t *testing.T) {
	lister := &fakeLister{listings: sampleListings()}
	cache := NewCache(lister, validation.New(), time.Minute)
	ctx := context.Background()

	listing, ok := cache.Lookup(ctx, "vale3")
	if !ok || listing.Ticker != "VALE3" {
		t.Errorf("case-insensitive lookup failed: %+v ok=%v", listing, ok)
	}

	if _, ok := cache.Lookup(ctx, "ZZZZ9"); ok {
		t.Error("lookup of unknown ticker should miss")
	}
}
