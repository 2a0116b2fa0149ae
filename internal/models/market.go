// Package models provides the shared data structures for market data
// flowing between the provider client, the caches and the HTTP API.
package models

import "time"

// Quote is a point-in-time price snapshot for a single ticker.
// A Quote is never mutated in place; a fresher fetch replaces it.
type Quote struct {
	Symbol        string   `json:"symbol" validate:"required,alphanum,uppercase,max=10"`
	Name          string   `json:"name"`
	Price         float64  `json:"price" validate:"gte=0"`
	ChangePercent *float64 `json:"changePercent,omitempty"`
	// PreviousClose is only populated by the live quote endpoint. Quotes
	// synthesized from the symbol directory do not carry it, so intraday
	// change math must tolerate its absence.
	PreviousClose *float64 `json:"previousClose,omitempty"`
	LogoURL       string   `json:"logoUrl,omitempty"`
}

// SymbolListing is one entry of the tradable-symbol directory.
type SymbolListing struct {
	Ticker    string   `json:"ticker" validate:"required,max=10"`
	Name      string   `json:"name"`
	Close     float64  `json:"close" validate:"gte=0"`
	Change    float64  `json:"change"`
	Volume    int64    `json:"volume" validate:"gte=0"`
	MarketCap *float64 `json:"marketCap,omitempty"`
	LogoURL   string   `json:"logo,omitempty"`
	Sector    string   `json:"sector,omitempty"`
}

// PriceBar is a single OHLCV sample. Timestamp is a full instant, not a
// date: intraday bars carry time-of-day.
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// RangeSpec is a (range, interval) pair drawn from the provider's fixed
// vocabulary, e.g. {"1mo", "1d"}. It is built per request and never stored.
type RangeSpec struct {
	Range    string `json:"range"`
	Interval string `json:"interval"`
}
