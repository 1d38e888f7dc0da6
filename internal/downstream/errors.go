package downstream

import (
	"errors"
	"fmt"

	"github.com/textgate/textgate/internal/model"
)

// Sentinel errors for downstream calls.
var (
	// ErrUnavailable indicates a transport-level failure: the service could
	// not be reached or the call timed out.
	ErrUnavailable = errors.New("downstream service unavailable")
	// ErrDownstream indicates the service answered with a non-2xx status or
	// a malformed body.
	ErrDownstream = errors.New("downstream service error")
)

// ServiceError is the single error type surfaced to the gateway for any
// failed downstream call. Message carries the downstream's own error text
// when one was available, else a generic description.
type ServiceError struct {
	Kind    model.OperationKind
	Message string
	err     error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying sentinel for errors.Is checks.
func (e *ServiceError) Unwrap() error {
	return e.err
}
