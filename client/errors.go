package client

import "fmt"

// TransportError means no response was received from the pipeline
// service, typically because it is unreachable.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("pipeline service unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError carries a failure response from the pipeline service. The
// server-supplied message is surfaced verbatim when present.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("pipeline service returned status %d", e.StatusCode)
}
