package federation

import (
	"errors"
	"fmt"
)

// Reason classifies why an exchange with the provider failed.
type Reason string

const (
	ReasonUpstreamRejected  Reason = "upstream_rejected"
	ReasonNetwork           Reason = "network"
	ReasonMalformedResponse Reason = "malformed_response"
)

// Error describes a failed provider call. It never carries the client
// secret or the request body.
type Error struct {
	Reason     Reason
	Op         string // "exchange_code" or "fetch_identity"
	StatusCode int    // upstream status for ReasonUpstreamRejected
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("federation %s: %s", e.Op, e.Reason)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts the *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
