// Package usecase implements the business logic for the bars feature.
package usecase

import "errors"

// Failure taxonomy for the bars pipeline. Handlers map these to HTTP statuses
// with errors.Is; the underlying cause is logged where the error originates
// and is never surfaced to API clients.
var (
	// ErrInvalidInput is returned when a ticker or parameter fails validation.
	ErrInvalidInput = errors.New("invalid ticker or parameters")

	// ErrNoDataFound is returned when the source or the store has no bars for
	// a valid-looking ticker.
	ErrNoDataFound = errors.New("no data found")

	// ErrSourceUnavailable is returned when the upstream market-data source is
	// unreachable or responds with an error.
	ErrSourceUnavailable = errors.New("market data source unavailable")

	// ErrStoreUnavailable is returned when the store connection or a write fails.
	ErrStoreUnavailable = errors.New("store unavailable")
)
