// Package api is the HTTP client for the remote purchase-advice service.
// This file normalizes the service's response shapes: every operation
// tolerates a bare payload, a SUCCESS envelope, and a FAIL envelope, and
// every failure becomes an *Error with a human-readable reason.
package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// defaultReason is used when the service reports a failure without saying
// why.
const defaultReason = "the advice service reported an error"

// Error is the single error type everything crossing the client boundary
// is normalized to. Reason is always human-readable.
type Error struct {
	Reason string
	Status int
	cause  error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api: %s (HTTP %d)", e.Reason, e.Status)
	}
	return "api: " + e.Reason
}

func (e *Error) Unwrap() error { return e.cause }

// envelope is the optional wrapper some responses use around a payload.
type envelope struct {
	ResultType string          `json:"resultType"`
	Data       json.RawMessage `json:"data"`
	Err        *envelopeError  `json:"error"`
}

type envelopeError struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (e *envelopeError) reason() string {
	if e == nil {
		return defaultReason
	}
	if e.Reason != "" {
		return e.Reason
	}
	if e.Message != "" {
		return e.Message
	}
	return defaultReason
}

// decodeBody decodes a response body that may be a bare payload, a SUCCESS
// envelope, or a FAIL/FAILED envelope. out may be nil for operations with
// no payload.
func decodeBody(data []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.ResultType != "" {
		switch strings.ToUpper(env.ResultType) {
		case "SUCCESS":
			if out == nil || len(env.Data) == 0 {
				return nil
			}
			if err := json.Unmarshal(env.Data, out); err != nil {
				return &Error{Reason: "unexpected response from the service", cause: err}
			}
			return nil
		case "FAIL", "FAILED":
			return &Error{Reason: env.Err.reason()}
		}
		// Unknown resultType: fall through and treat the body as bare.
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Reason: "unexpected response from the service", cause: err}
	}
	return nil
}

// failureReason extracts the reason from an error body, falling back to
// the HTTP status when the body carries no envelope.
func failureReason(data []byte, status int) string {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil {
		switch strings.ToUpper(env.ResultType) {
		case "FAIL", "FAILED":
			return env.Err.reason()
		}
		if env.Err != nil {
			return env.Err.reason()
		}
	}
	return fmt.Sprintf("the advice service answered %d", status)
}
