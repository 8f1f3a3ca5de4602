package mailbox

import "fmt"

// SendError means the outbound reply could not be delivered. Unlike
// rendering failures it is surfaced to the caller: the pipeline's work
// is worthless if the reply never leaves.
type SendError struct {
	To      string
	Message string
	Cause   error
}

func (e *SendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("send to %s failed: %s: %v", e.To, e.Message, e.Cause)
	}
	return fmt.Sprintf("send to %s failed: %s", e.To, e.Message)
}

func (e *SendError) Unwrap() error {
	return e.Cause
}

// GatewayError wraps mailbox setup or fetch failures.
type GatewayError struct {
	Message string
	Cause   error
}

func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("mailbox: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("mailbox: %s", e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}
