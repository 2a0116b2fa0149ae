package validation

import "errors"

var (
	// ErrUnreasonablePrice indicates a price outside plausible bounds.
	ErrUnreasonablePrice = errors.New("price outside reasonable bounds")

	// ErrUnreasonableVolume indicates a volume outside plausible bounds.
	ErrUnreasonableVolume = errors.New("volume outside reasonable bounds")
)
