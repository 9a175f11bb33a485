package common

import "errors"

// Submission-invalid errors (spec.md §7): the engine rejects these
// locally and leaves its state unchanged.
var (
	ErrNonPositiveVolume   = errors.New("order volume must be positive")
	ErrPriceMarketMismatch = errors.New("market order must not carry a price, limit order must")
	ErrUnknownOrderType    = errors.New("unknown order type")
)
