package domain

import "errors"

var (
	// ErrInvalidPayload is returned when a job payload is missing required fields
	ErrInvalidPayload = errors.New("invalid job payload")

	// ErrTranscodeFailed is returned when the external transcoder exits
	// non-zero, crashes, or runs past the job timeout
	ErrTranscodeFailed = errors.New("transcode failed")

	// ErrMissingArtifacts is returned when the transcoder exits 0 but left
	// no renditions in the output directory
	ErrMissingArtifacts = errors.New("no output artifacts produced")
)

// RetryableError wraps transient errors that should trigger a requeue.
// Only a failed callback delivery qualifies: the callback is idempotent,
// so redelivering the job to retry it is safe.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
