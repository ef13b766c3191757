package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// sentinels for errors.Is checks; matching is by Kind only
var (
	ErrConfiguration       = &GenerationError{Kind: KindConfiguration}
	ErrInsufficientCredits = &GenerationError{Kind: KindInsufficientCredits}
	ErrProviderRejected    = &GenerationError{Kind: KindProviderRejected}
	ErrProviderTransient   = &GenerationError{Kind: KindProviderTransient}
	ErrProviderTimeout     = &GenerationError{Kind: KindProviderTimeout}
	ErrProviderRateLimited = &GenerationError{Kind: KindProviderRateLimited}
	ErrPersistenceFailure  = &GenerationError{Kind: KindPersistenceFailure}
	ErrSuperseded          = &GenerationError{Kind: KindSuperseded}
	ErrNotFound            = &GenerationError{Kind: KindNotFound}
	ErrConflict            = &GenerationError{Kind: KindConflict}
)

func (e *GenerationError) Error() string {
	prefix := string(e.Kind)
	if e.Op != "" {
		prefix = e.Op + ": " + prefix
	}

	msg := prefix
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// a bare sentinel (no Op) matches any error of the same kind
func (e *GenerationError) Is(target error) bool {
	t, ok := target.(*GenerationError)
	if !ok {
		return false
	}

	if t.Kind != e.Kind {
		return false
	}

	return t.Op == "" || t.Op == e.Op
}

// builds a generation error
func NewGeneration(kind Kind, op, message string, err error) *GenerationError {
	return &GenerationError{Kind: kind, Op: op, Message: message, Err: err}
}

// missing credentials or model identifiers, never retried
func Configuration(op, message string) *GenerationError {
	return &GenerationError{Kind: KindConfiguration, Op: op, Message: message}
}

// bad caller input detected before any provider call
func Invalid(op, message string) *GenerationError {
	return &GenerationError{Kind: KindInvalid, Op: op, Message: message}
}

// balance does not cover the requested cost
func InsufficientCredits(required, balance int) *GenerationError {
	return &GenerationError{
		Kind:    KindInsufficientCredits,
		Op:      OpCreditDebit,
		Message: fmt.Sprintf("this requires %d aiams but only %d are available", required, balance),
		Detail:  "purchase_required",
	}
}

// a storage write failed after the provider already produced the artifact
func Persistence(op string, artifact any, err error) *GenerationError {
	return &GenerationError{
		Kind:     KindPersistenceFailure,
		Op:       op,
		Message:  "generated but not saved, retry to save it",
		Artifact: artifact,
		Err:      err,
	}
}

// a newer request for the same draft replaced this one
func Superseded(op string) *GenerationError {
	return &GenerationError{Kind: KindSuperseded, Op: op, Message: "a newer request replaced this one"}
}

// classifies a non-2xx provider response
func FromProviderStatus(op string, status int, body string) *GenerationError {
	e := &GenerationError{Op: op, Detail: body}

	switch {
	case status == http.StatusTooManyRequests:
		e.Kind = KindProviderRateLimited
		e.Message = "the provider is rate limiting requests, try again shortly"
	case status >= 500:
		e.Kind = KindProviderTransient
		e.Message = "the provider is temporarily unavailable"
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = KindConfiguration
		e.Message = "the provider rejected our credentials"
	default:
		e.Kind = KindProviderRejected
		e.Message = "the provider rejected the request"
	}

	e.Err = fmt.Errorf("provider responded with status %d", status)

	return e
}

// classifies a transport-level failure (no response received)
func FromTransport(op string, err error) *GenerationError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &GenerationError{Kind: KindProviderTimeout, Op: op, Message: "the provider took too long to respond", Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &GenerationError{Kind: KindProviderTimeout, Op: op, Message: "the provider took too long to respond", Err: err}
	}

	return &GenerationError{Kind: KindProviderTransient, Op: op, Message: "could not reach the provider", Err: err}
}

// returns the kind of err, KindUnknown when it is not a generation error
func KindOf(err error) Kind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}

	return KindUnknown
}

// returns the operation name of err, empty when unknown
func OpOf(err error) string {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Op
	}

	return ""
}
