package http_client

import (
	"errors"
	"fmt"
)

// StatusError is returned by Do for responses with status >= 400.
type StatusError struct {
	StatusCode int
	Body       []byte // first 4KiB
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error status=%d body=%s", e.StatusCode, e.Body)
}

// ErrDecode wraps failures to decode a successful response body.
var ErrDecode = errors.New("decode response")
