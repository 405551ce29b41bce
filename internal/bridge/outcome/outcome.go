// Package outcome defines the uniform result shape every dispatched
// operation returns and the fixed error taxonomy host signals are
// normalized into.
package outcome

import (
	"errors"
	"fmt"
)

// Kind classifies the result of a dispatched operation. Every host-adapter
// outcome maps to exactly one Kind; raw host values never cross the dispatch
// boundary.
type Kind string

const (
	// OK marks a successful operation.
	OK Kind = "OK"
	// UnknownOperation marks an operation name absent from the registry.
	UnknownOperation Kind = "UNKNOWN_OPERATION"
	// ValidationError marks arguments rejected before any host call.
	ValidationError Kind = "VALIDATION_ERROR"
	// NotFound marks a missing current entity or a stale reference.
	NotFound Kind = "NOT_FOUND"
	// AlreadyExists marks a name collision reported by the host.
	AlreadyExists Kind = "ALREADY_EXISTS"
	// InvalidArgument marks well-typed arguments the host rejects.
	InvalidArgument Kind = "INVALID_ARGUMENT"
	// Unsupported marks a capability absent in this host version or edition.
	Unsupported Kind = "UNSUPPORTED"
	// Busy marks an operation refused because host-side work is in progress.
	Busy Kind = "BUSY"
	// HostUnavailable marks a host connection that is down or unresponsive.
	HostUnavailable Kind = "HOST_UNAVAILABLE"
	// Internal marks an unexpected host fault.
	Internal Kind = "INTERNAL"
)

// Outcome is the uniform success/error shape returned by dispatch. A
// successful outcome carries a value; a failed one carries a Kind plus a
// human-readable detail string.
type Outcome struct {
	Kind   Kind           `json:"kind"`
	Value  map[string]any `json:"value,omitempty"`
	Detail string         `json:"detail,omitempty"`
}

// Success reports whether the outcome carries a value rather than an error.
func (o Outcome) Success() bool {
	return o.Kind == OK
}

// Successf builds a successful outcome carrying value.
func Successf(value map[string]any) Outcome {
	return Outcome{Kind: OK, Value: value}
}

// Errorf builds a failed outcome with a formatted detail string.
func Errorf(kind Kind, format string, args ...any) Outcome {
	if kind == OK {
		kind = Internal
	}
	return Outcome{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Error carries a Kind across adapter boundaries as a Go error. Adapters
// return *Error (or a wrapped one); the normalizer maps anything else to
// Internal. Meta carries structured failure context (e.g. how many nodes of
// a chain were created before the failure) into the outcome value.
type Error struct {
	Kind   Kind
	Detail string
	Meta   map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// NewError builds an *Error with a formatted detail string.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// FromError normalizes an adapter error into a failed outcome. Errors that
// do not carry a Kind are unexpected host faults and map to Internal.
func FromError(err error) Outcome {
	if err == nil {
		return Successf(nil)
	}
	var oe *Error
	if errors.As(err, &oe) {
		return Outcome{Kind: oe.Kind, Detail: oe.Detail, Value: oe.Meta}
	}
	return Outcome{Kind: Internal, Detail: err.Error()}
}

// KindOf extracts the Kind from an adapter error, defaulting to Internal.
func KindOf(err error) Kind {
	if err == nil {
		return OK
	}
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return Internal
}
