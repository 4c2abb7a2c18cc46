package types

import "github.com/m-mizutani/goerr/v2"

// TagBadRequest marks caller-input validation failures. Deliveries carrying
// such errors must be rejected, never mapped to a fallback build mode.
var TagBadRequest = goerr.NewTag("bad_request")

var (
	// ErrInvalidEventKind is returned when a trigger event carries an event
	// kind other than push or review request.
	ErrInvalidEventKind = goerr.New("invalid event kind", goerr.T(TagBadRequest))

	// ErrInvalidBranch is returned when a trigger event has an empty origin
	// branch identifier.
	ErrInvalidBranch = goerr.New("invalid branch identifier", goerr.T(TagBadRequest))
)
