// Package history turns application-level time windows into the provider's
// fixed range/interval vocabulary and fetches price series with graceful
// degradation when the preferred granularity is unavailable.
package history

import (
	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/models"
)

// Label is an application-level coarse time window.
type Label string

const (
	Day      Label = "1d"
	Week     Label = "5d"
	Month    Label = "30d"
	TwoMonth Label = "60d"
	Year     Label = "1y"
)

// chains maps each label to its ordered fallback list. Earlier entries are
// closest to intent; later ones trade granularity for the near-certainty of
// the provider having data. Every chain ends in a daily-bar, wide-range
// entry that is populated for essentially any listed symbol.
var chains = map[Label][]models.RangeSpec{
	Day: {
		{Range: "1d", Interval: "15m"},
		{Range: "1d", Interval: "5m"},
		{Range: "5d", Interval: "1d"},
	},
	Week: {
		{Range: "5d", Interval: "30m"},
		{Range: "5d", Interval: "1d"},
		{Range: "1mo", Interval: "1d"},
	},
	Month: {
		{Range: "1mo", Interval: "1d"},
		{Range: "3mo", Interval: "1d"},
	},
	TwoMonth: {
		{Range: "3mo", Interval: "1d"},
		{Range: "6mo", Interval: "1d"},
	},
	Year: {
		{Range: "1y", Interval: "1d"},
		{Range: "2y", Interval: "1d"},
	},
}

// ParseLabel validates a label string from the outside world.
func ParseLabel(s string) (Label, bool) {
	label := Label(s)
	_, ok := chains[label]
	return label, ok
}

// FromDays maps an arbitrary day count onto the closest label.
func FromDays(days int) Label {
	switch {
	case days <= 1:
		return Day
	case days <= 5:
		return Week
	case days <= 30:
		return Month
	case days <= 60:
		return TwoMonth
	default:
		return Year
	}
}

// Primary returns the spec closest to the requested window's intent.
func Primary(label Label) models.RangeSpec {
	return Chain(label)[0]
}

// Chain returns the ordered fallback list for a label. Unknown labels get
// the month chain so the mapping stays total and deterministic.
func Chain(label Label) []models.RangeSpec {
	chain, ok := chains[label]
	if !ok {
		chain = chains[Month]
	}
	out := make([]models.RangeSpec, len(chain))
	copy(out, chain)
	return out
}
