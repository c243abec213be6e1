package domain

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates the API server is unreachable
	ErrServerOffline = errors.New("api server is unreachable")

	// ErrInvalidSortKey indicates a sort key outside id/title/author/body
	ErrInvalidSortKey = errors.New("invalid sort key")

	// ErrUserNotFound indicates the requested user does not exist in the directory
	ErrUserNotFound = errors.New("user not found")
)

// StatusError is returned when the API answers with a non-success status
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
}

// IsCanceled reports whether err is a voluntary client-side abandonment.
// Canceled requests are never surfaced to the user.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTransportFailure reports whether err came from the network or a non-success status
func IsTransportFailure(err error) bool {
	if err == nil || IsCanceled(err) {
		return false
	}
	var statusErr *StatusError
	return errors.Is(err, ErrServerOffline) || errors.As(err, &statusErr)
}
