package history

import (
	"context"
	"log"

	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/models"
)

// Provider fetches one historical series for a provider-vocabulary spec.
type Provider interface {
	GetHistory(ctx context.Context, symbol string, spec models.RangeSpec) ([]models.PriceBar, error)
}

// Fetcher walks a label's fallback chain until a usable series comes back.
type Fetcher struct {
	provider Provider
}

// NewFetcher creates a history fetcher over the given provider.
func NewFetcher(provider Provider) *Fetcher {
	return &Fetcher{provider: provider}
}

// Fetch returns the first series on the label's chain with more than one
// bar. A single bar is useless to charts and variance math, so it counts as
// "no real history" and the chain moves on. When the whole chain yields
// nothing, the result is empty; callers treat that as data unavailability,
// not as an error.
func (f *Fetcher) Fetch(ctx context.Context, symbol string, label Label) []models.PriceBar {
	for _, spec := range Chain(label) {
		bars, err := f.provider.GetHistory(ctx, symbol, spec)
		if err != nil {
			log.Printf("history: %s range=%s interval=%s failed, trying next: %v",
				symbol, spec.Range, spec.Interval, err)
			continue
		}
		if len(bars) > 1 {
			return bars
		}
	}
	return nil
}
