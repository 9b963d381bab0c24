package source

import "errors"

var (
	// ErrUnavailable classifies every retryable source failure: timeouts,
	// connection refusals, TLS verification failures, and unexpected HTTP
	// statuses. The scheduler backs off and retries on it.
	ErrUnavailable = errors.New("source unavailable")

	// ErrImageNotFound means the source has no thumbnail for the target.
	// Expected absence, not a failure.
	ErrImageNotFound = errors.New("image not found")
)
