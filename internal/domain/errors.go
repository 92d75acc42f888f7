package domain

import (
	"errors"
	"fmt"
)

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. Gate rejections are
// recoverable: the user fixes the input and retries.

var (
	// Gate errors
	ErrEmptyMessage      = errors.New("message cannot be empty")
	ErrDisallowedContent = errors.New("message contains disallowed content")

	// Transport errors
	ErrWebhookNotConfigured = errors.New("coach webhook URL is not configured")
)

// TooLongError reports a message over the length cap.
type TooLongError struct {
	Max int
}

func (e *TooLongError) Error() string {
	return fmt.Sprintf("message exceeds %d characters", e.Max)
}

// RateLimitedError reports a submission blocked by the trailing-window
// rate limiter. RetryAfter is rounded up to whole seconds.
type RateLimitedError struct {
	RetryAfter int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many requests, wait %d seconds", e.RetryAfter)
}

// RequestFailedError reports a non-2xx webhook response.
type RequestFailedError struct {
	StatusCode int
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("request failed: %d", e.StatusCode)
}
