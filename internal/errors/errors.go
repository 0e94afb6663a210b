package errors

import (
	"errors"
	"fmt"
)

// Custom error types for the URL shortener application.
// All of these are recoverable-by-caller conditions: the transport layer
// maps them to status codes, none of them are fatal to the process.

// ErrShortCodeNotFound is returned when a short code doesn't exist in the store.
var ErrShortCodeNotFound = errors.New("short code not found")

// ErrLinkExpired is returned when a short code exists but its validity window
// has passed. Expired links stay queryable for stats but never redirect again.
var ErrLinkExpired = errors.New("short link has expired")

// ErrInvalidURL is returned when the provided URL is not an absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid URL format")

// ErrInvalidValidity is returned when the validity period is zero or negative.
var ErrInvalidValidity = errors.New("validity must be a positive number of minutes")

// ErrShortCodeTaken is returned when a caller-supplied short code is already
// reserved. User-chosen codes are a hard request and are never retried.
var ErrShortCodeTaken = errors.New("short code already exists")

// ErrInvalidShortCode is returned when a caller-supplied short code is empty or
// contains characters outside the URL-safe alphabet.
var ErrInvalidShortCode = errors.New("invalid short code format")

// ErrCodeGenerationExhausted is returned when the bounded generate-and-reserve
// loop runs out of attempts without claiming a unique code.
var ErrCodeGenerationExhausted = errors.New("failed to generate unique short code after maximum retries")

// ErrClickRecordingFailed is returned when a click event could not be persisted.
type ErrClickRecordingFailed struct {
	ShortCode string
	Reason    string
}

func (e ErrClickRecordingFailed) Error() string {
	return fmt.Sprintf("failed to record click for link %s: %s", e.ShortCode, e.Reason)
}

// ErrConfigLoad is returned when configuration loading fails.
type ErrConfigLoad struct {
	Path   string
	Reason string
}

func (e ErrConfigLoad) Error() string {
	return fmt.Sprintf("failed to load config from %s: %s", e.Path, e.Reason)
}
