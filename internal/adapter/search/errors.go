package search

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// UpstreamError is any failure of the forwarding call: the search service was
// unreachable, timed out, or answered with a non-2xx status.
type UpstreamError struct {
	StatusCode int // zero when no response was received
	Timeout    bool
	Cause      error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("search service timed out: %v", e.Cause)
	case e.StatusCode != 0:
		return fmt.Sprintf("search service returned status %d", e.StatusCode)
	default:
		return fmt.Sprintf("search service unreachable: %v", e.Cause)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

func newTransportError(err error) *UpstreamError {
	return &UpstreamError{Timeout: isTimeout(err), Cause: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
