package gemini

import "errors"

// Error taxonomy for recommender calls. Transient failures are retried with
// backoff; the rest are returned immediately.
var (
	// ErrInvalidConfig indicates the recommender was constructed with
	// unusable configuration.
	ErrInvalidConfig = errors.New("invalid gemini configuration")

	// ErrInvalidResponse indicates the model replied with something that is
	// not the expected JSON recommendation.
	ErrInvalidResponse = errors.New("invalid gemini response")

	// ErrTransientFailure indicates a retryable API failure that persisted
	// through all retry attempts.
	ErrTransientFailure = errors.New("transient gemini failure")
)
