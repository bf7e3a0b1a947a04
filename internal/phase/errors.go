package phase

import "errors"

// Sentinel errors for catalog lookups and construction.
var (
	// ErrUnknownPhase indicates the requested phase is not in the catalog.
	ErrUnknownPhase = errors.New("unknown phase")
	// ErrInvalidGrid indicates grid parameters that cannot produce a valid sampling grid.
	ErrInvalidGrid = errors.New("invalid grid parameters")
)
