// Package quotes resolves tickers to current quote snapshots. The live
// quote endpoint is preferred; when it fails or comes back partial, the
// symbol directory supplies a slightly staler answer. Availability wins
// over freshness here: the UI would rather show last close than nothing.
package quotes

import (
	"context"
	"log"
	"strings"

	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/models"
	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/validation"
)

// QuoteFetcher fetches live quotes for a batch of tickers.
type QuoteFetcher interface {
	GetQuotes(ctx context.Context, symbols []string) ([]models.Quote, error)
}

// Directory looks up single entries in the symbol directory cache.
type Directory interface {
	Lookup(ctx context.Context, ticker string) (models.SymbolListing, bool)
}

// Resolver turns tickers into quotes with directory fallback. Lookups that
// miss both sources are silently omitted; no error ever reaches the caller.
type Resolver struct {
	fetcher   QuoteFetcher
	directory Directory
	validator *validation.Validator
}

// NewResolver creates a resolver over a live quote source and the directory
// fallback.
func NewResolver(fetcher QuoteFetcher, dir Directory, v *validation.Validator) *Resolver {
	return &Resolver{
		fetcher:   fetcher,
		directory: dir,
		validator: v,
	}
}

// ResolveOne resolves a single ticker, returning nil when neither the live
// endpoint nor the directory knows it.
func (r *Resolver) ResolveOne(ctx context.Context, ticker string) *models.Quote {
	resolved := r.ResolveMany(ctx, []string{ticker})
	if len(resolved) == 0 {
		return nil
	}
	return &resolved[0]
}

// ResolveMany resolves a set of tickers in one batch call. Input is
// de-duplicated; the result carries one entry per ticker that was found in
// either source, in input order.
func (r *Resolver) ResolveMany(ctx context.Context, tickers []string) []models.Quote {
	wanted := dedupe(tickers)
	if len(wanted) == 0 {
		return nil
	}

	live := r.fetchLive(ctx, wanted)

	resolved := make([]models.Quote, 0, len(wanted))
	for _, ticker := range wanted {
		if quote, ok := live[ticker]; ok {
			resolved = append(resolved, quote)
			continue
		}
		if quote, ok := r.fromDirectory(ctx, ticker); ok {
			resolved = append(resolved, quote)
		}
		// missing from both sources: omitted, not an error
	}
	return resolved
}

// fetchLive calls the quote endpoint and indexes usable results by symbol.
// A quote with no positive price counts as unusable so the directory gets a
// chance to fill it in.
func (r *Resolver) fetchLive(ctx context.Context, tickers []string) map[string]models.Quote {
	quotes, err := r.fetcher.GetQuotes(ctx, tickers)
	if err != nil {
		log.Printf("quotes: live fetch failed, falling back to directory: %v", err)
		return nil
	}

	live := make(map[string]models.Quote, len(quotes))
	for _, quote := range quotes {
		if quote.Price <= 0 {
			continue
		}
		if r.validator != nil {
			if err := r.validator.ValidateQuote(&quote); err != nil {
				log.Printf("quotes: dropping invalid live quote for %s: %v", quote.Symbol, err)
				continue
			}
		}
		live[quote.Symbol] = quote
	}
	return live
}

// fromDirectory synthesizes a quote from a directory listing. The listing
// has no previous close, so the field stays nil.
func (r *Resolver) fromDirectory(ctx context.Context, ticker string) (models.Quote, bool) {
	listing, ok := r.directory.Lookup(ctx, ticker)
	if !ok || listing.Close <= 0 {
		return models.Quote{}, false
	}
	change := listing.Change
	return models.Quote{
		Symbol:        listing.Ticker,
		Name:          listing.Name,
		Price:         listing.Close,
		ChangePercent: &change,
		LogoURL:       listing.LogoURL,
	}, true
}

func dedupe(tickers []string) []string {
	seen := make(map[string]struct{}, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
