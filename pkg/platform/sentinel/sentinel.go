package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Repositories, caches and sinks
// return these (optionally wrapped) so callers can branch with errors.Is:
// - ErrNotFound: aggregate does not exist in the store
// - ErrInvalidState: input the engine cannot accept (e.g. container events out of order)
// - ErrUnavailable: backing service temporarily unavailable
// - ErrClosed: component used after Close
//
// A denied section save is not an error; see access.Decision.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
	ErrClosed       = errors.New("closed")
)
