package profile

import "fmt"

// StoreError wraps a failed storage operation with the user id it was
// acting on.
type StoreError struct {
	UserID  string
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("profile store: %s (user %q): %v", e.Message, e.UserID, e.Cause)
	}
	return fmt.Sprintf("profile store: %s (user %q)", e.Message, e.UserID)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
