// Package validation sanity-checks market data coming back from the
// provider before it is cached or served. Struct tags cover shape; the
// bounds here catch payloads that are well-formed but implausible.
package validation

import (
	"github.com/go-playground/validator/v10"

	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/models"
)

// Validator validates provider-sourced quotes and listings.
type Validator struct {
	validate  *validator.Validate
	priceMax  float64
	volumeMax int64
}

// New creates a validator with default bounds.
func New() *Validator {
	return &Validator{
		validate:  validator.New(),
		priceMax:  1000000.0,   // no B3 listing trades anywhere near this
		volumeMax: 10000000000, // 10B shares/day ceiling
	}
}

// ValidateQuote returns an error if a live quote is malformed or implausible.
func (v *Validator) ValidateQuote(q *models.Quote) error {
	if err := v.validate.Struct(q); err != nil {
		return err
	}
	if q.Price > v.priceMax {
		return ErrUnreasonablePrice
	}
	return nil
}

// ValidateListing returns an error if a directory entry is malformed or
// implausible.
func (v *Validator) ValidateListing(l *models.SymbolListing) error {
	if err := v.validate.Struct(l); err != nil {
		return err
	}
	if l.Close > v.priceMax {
		return ErrUnreasonablePrice
	}
	if l.Volume > v.volumeMax {
		return ErrUnreasonableVolume
	}
	return nil
}

// FilterListings drops invalid entries from a directory payload, returning
// the survivors.
func (v *Validator) FilterListings(listings []models.SymbolListing) []models.SymbolListing {
	valid := make([]models.SymbolListing, 0, len(listings))
	for i := range listings {
		if err := v.ValidateListing(&listings[i]); err == nil {
			valid = append(valid, listings[i])
		}
	}
	return valid
}
