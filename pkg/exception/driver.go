package exception

import (
	"errors"
	"fmt"
)

// Driver errors
var (
	// ErrFetchFailed covers transport errors, non-2xx responses and payload
	// decode failures alike.
	ErrFetchFailed = errors.New("driver: fetch failed")

	// ErrMalformedSymbol is returned when a market pair cannot be split into
	// exactly one base and one quote.
	ErrMalformedSymbol = errors.New("driver: malformed symbol")

	// ErrUnresolvedHistoricalWindow is returned when no indexed block falls
	// inside the lookback tolerance window. It is a fetch failure.
	ErrUnresolvedHistoricalWindow = fmt.Errorf("%w: unresolved historical window", ErrFetchFailed)

	ErrNilClient = errors.New("driver: nil request client")
)
