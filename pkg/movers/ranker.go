// Package movers derives top gainers and losers from the symbol directory.
// The equity filter errs toward exclusion: a fund or depositary receipt in
// the list is more confusing than a missing stock.
package movers

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/models"
)

// Limit caps each of the gainers and losers lists.
const Limit = 15

// equityTicker matches the B3 share-class convention: four letters plus a
// single share-class digit (3 ordinary, 4 preferred, 5-8 preferred classes).
// Units (11) and BDRs (two-digit suffixes) deliberately do not match.
var equityTicker = regexp.MustCompile(`^[A-Z]{4}[3-8]$`)

// fundMarkers are name substrings that flag funds, ETFs and depositary
// receipts slipping through the ticker filter.
var fundMarkers = []string{"FII", "ETF", "FUNDO", "FDO", "BDR", "DRN"}

// Directory supplies the full symbol list.
type Directory interface {
	GetAll(ctx context.Context) []models.SymbolListing
}

// Movers holds the two ranked lists. Losers are ordered worst-first.
type Movers struct {
	Gainers []models.SymbolListing `json:"gainers"`
	Losers  []models.SymbolListing `json:"losers"`
}

// Ranker computes top movers from the directory cache. It never talks to
// the provider directly.
type Ranker struct {
	directory Directory
	limit     int
}

// NewRanker creates a ranker over the directory cache.
func NewRanker(directory Directory) *Ranker {
	return &Ranker{directory: directory, limit: Limit}
}

// isEquity reports whether a listing looks like a liquid exchange equity.
func isEquity(listing models.SymbolListing) bool {
	if !equityTicker.MatchString(listing.Ticker) {
		return false
	}
	if listing.Volume <= 0 || listing.Close <= 0 {
		return false
	}
	name := strings.ToUpper(listing.Name)
	for _, marker := range fundMarkers {
		if strings.Contains(name, marker) {
			return false
		}
	}
	return true
}

// TopMovers filters the directory down to liquid equities and ranks them by
// day change. Gainers are sorted best-first, losers worst-first.
func (r *Ranker) TopMovers(ctx context.Context) Movers {
	var equities []models.SymbolListing
	for _, listing := range r.directory.GetAll(ctx) {
		if isEquity(listing) {
			equities = append(equities, listing)
		}
	}

	sort.Slice(equities, func(i, j int) bool {
		if equities[i].Change != equities[j].Change {
			return equities[i].Change > equities[j].Change
		}
		return equities[i].Ticker < equities[j].Ticker
	})

	gainers := make([]models.SymbolListing, 0, r.limit)
	for i := 0; i < len(equities) && i < r.limit; i++ {
		gainers = append(gainers, equities[i])
	}

	losers := make([]models.SymbolListing, 0, r.limit)
	for i := len(equities) - 1; i >= 0 && len(losers) < r.limit; i-- {
		losers = append(losers, equities[i])
	}

	return Movers{Gainers: gainers, Losers: losers}
}
