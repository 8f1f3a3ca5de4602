package routing

import "fmt"

// RoutingError wraps a failed profile selection for an inbound request.
type RoutingError struct {
	Kind    string
	Message string
	Cause   error
}

func (e *RoutingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("routing %s request: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("routing %s request: %s", e.Kind, e.Message)
}

func (e *RoutingError) Unwrap() error {
	return e.Cause
}
