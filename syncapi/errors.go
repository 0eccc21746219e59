package syncapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized indicates the server rejected the API token.
var ErrUnauthorized = errors.New("the server rejected the API token")

// TransportError reports a failed sync exchange. The model is never changed
// when one is returned, so the exchange can simply be retried.
type TransportError struct {
	// Op is the failing step: "encode", "send", "status" or "decode".
	Op string

	// Status is the HTTP status code, or 0 if no response was received.
	Status int

	Err error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("sync %s failed (%d %s): %v", e.Op, e.Status, http.StatusText(e.Status), e.Err)
	}
	return fmt.Sprintf("sync %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
