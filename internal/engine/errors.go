package engine

import "errors"

// Sentinel errors returned by CheckInvariants. None of these should ever
// be reachable through the engine's public contract (spec.md §7); they
// exist so tests and the harness can assert that, not so callers branch
// on them.
var (
	errCrossedBook        = errors.New("engine: best bid >= best ask")
	errEmptyLevel         = errors.New("engine: empty price level left in tree")
	errIndexSizeMismatch  = errors.New("engine: resting order count does not match index size")
	errNonPositiveResting = errors.New("engine: resting order with non-positive volume")
	errVolumeMismatch     = errors.New("engine: level sum volume does not match its orders")
)
