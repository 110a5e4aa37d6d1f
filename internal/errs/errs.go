// Package errs defines the tagged error kinds shared by the services and
// infrastructure layers. Callers branch on Kind instead of matching error
// text; handlers flatten these to plain messages at the HTTP boundary.
package errs

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindConfiguration means processor credentials or store settings are
	// missing. Not retryable without operator intervention.
	KindConfiguration
	// KindAuthRequired means no local session or backend token is available.
	KindAuthRequired
	// KindProcessorLookup means a processor read (retrieve/list) failed.
	KindProcessorLookup
	// KindProcessorOperation means a processor mutation failed.
	KindProcessorOperation
	// KindPermanentlyUnusable means the processor signalled a payment method
	// can never be attached again. Terminal for that method id.
	KindPermanentlyUnusable
	// KindAlreadyDetached means a detach was requested for a method the
	// processor no longer considers attached. Callers treat it as success.
	KindAlreadyDetached
	// KindRemoteStore means the relational backend returned a non-2xx.
	KindRemoteStore
	// KindValidation means the backend rejected the payload (422) or local
	// input validation failed. Not retryable as-is.
	KindValidation
	// KindNotFound means an expected row was absent.
	KindNotFound
	// KindNoCustomer means the user has no processor customer reference yet.
	KindNoCustomer
	// KindNoPaymentMethod means the user has no stored payment methods.
	KindNoPaymentMethod
	// KindPaymentNotSucceeded means a payment intent was not in the
	// succeeded state when completion was requested.
	KindPaymentNotSucceeded
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindAuthRequired:
		return "authentication_required"
	case KindProcessorLookup:
		return "processor_lookup"
	case KindProcessorOperation:
		return "processor_operation"
	case KindPermanentlyUnusable:
		return "permanently_unusable"
	case KindAlreadyDetached:
		return "already_detached"
	case KindRemoteStore:
		return "remote_store"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindNoCustomer:
		return "no_customer"
	case KindNoPaymentMethod:
		return "no_payment_method"
	case KindPaymentNotSucceeded:
		return "payment_not_succeeded"
	default:
		return "unknown"
	}
}

// Error carries a kind, a human-readable message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error around a cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or KindUnknown if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
