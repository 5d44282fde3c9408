package domain

import (
	"errors"
	"fmt"
)

// ErrRequestInvalid is the sentinel wrapped by every ValidationError.
var ErrRequestInvalid = errors.New("invalid trip request")

type ValidationError struct{ Reason string }

func (e *ValidationError) Error() string { return e.Reason }
func (e *ValidationError) Unwrap() error { return ErrRequestInvalid }

func Invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// FailureKind classifies why a model call produced no text.
type FailureKind string

const (
	FailureNone         FailureKind = ""
	FailureUnavailable  FailureKind = "unavailable"
	FailureTimeout      FailureKind = "timeout"
	FailureRateLimited  FailureKind = "rate_limited"
	FailureServerError  FailureKind = "server_error"
	FailureClientError  FailureKind = "client_error"
	FailureNetworkError FailureKind = "network_error"
)

// ModelError is returned by model clients. Status is the HTTP status when one was received.
type ModelError struct {
	Kind   FailureKind
	Status int
	Err    error
}

var (
	ErrModelUnavailable = &ModelError{Kind: FailureUnavailable}
	ErrModelTimeout     = &ModelError{Kind: FailureTimeout}
	ErrModelRateLimited = &ModelError{Kind: FailureRateLimited}
	ErrModelServer      = &ModelError{Kind: FailureServerError}
	ErrModelClient      = &ModelError{Kind: FailureClientError}
	ErrModelNetwork     = &ModelError{Kind: FailureNetworkError}
)

func (e *ModelError) Error() string {
	msg := "model " + string(e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ModelError) Unwrap() error { return e.Err }

// Is matches any ModelError of the same kind, so errors.Is(err, ErrModelTimeout) works on wrapped values.
func (e *ModelError) Is(target error) bool {
	t, ok := target.(*ModelError)
	return ok && t.Kind == e.Kind
}

// KindOf extracts the failure class from err; errors that are not model errors report FailureNone.
func KindOf(err error) FailureKind {
	var me *ModelError
	if errors.As(err, &me) {
		return me.Kind
	}
	return FailureNone
}
