package pathway

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind identifies the category of a business failure. Kinds are chosen by
// step authors; the well-known kinds below are used by the helpers in this
// package.
type Kind string

// Well-known failure kinds.
const (
	KindNotFound  Kind = "not_found"
	KindInvalid   Kind = "invalid"
	KindForbidden Kind = "forbidden"
	KindError     Kind = "error"
)

// Error is the structured payload carried by a failed Outcome.
// It describes an intentional business outcome, never a system fault:
// panics raised by step bodies are not converted into Errors.
//
// Errors are compared by identity. Once constructed an Error is never
// mutated, and every composition primitive forwards the same pointer
// untouched, so callers may rely on
//
//	out.Err() == errFromStep
//
// after a pipeline fails at that step.
//
// Example:
//
//	if age < 18 {
//	    return pathway.Fail("underage", "must be an adult", map[string]any{"age": age})
//	}
type Error struct {
	Details any
	cause   error
	Kind    Kind
	Message string
}

// NewError builds an Error. Message and details are optional; pass "" and nil
// to omit them.
func NewError(kind Kind, message string, details any) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

// FromError converts a Go error into an Error. An error that already wraps
// an *Error is returned as that same *Error so identity is preserved.
// Any other error becomes a KindError failure that unwraps to it.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return &Error{Kind: KindError, Message: err.Error(), cause: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the Go error this failure was built from, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

// errorJSON is the wire shape of an Error. Message and details serialize as
// null when absent.
type errorJSON struct {
	Message *string `json:"message" msgpack:"message"`
	Details any     `json:"details" msgpack:"details"`
	Kind    string  `json:"kind" msgpack:"kind"`
}

func (e *Error) wire() errorJSON {
	w := errorJSON{Kind: string(e.Kind), Details: e.Details}
	if e.Message != "" {
		msg := e.Message
		w.Message = &msg
	}
	return w
}

func (w errorJSON) error() *Error {
	e := &Error{Kind: Kind(w.Kind), Details: w.Details}
	if w.Message != nil {
		e.Message = *w.Message
	}
	return e
}

// MarshalJSON implements json.Marshaler producing
// {"kind": ..., "message": ...|null, "details": ...|null}.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.wire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Error) UnmarshalJSON(data []byte) error {
	var w errorJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Kind == "" {
		return ErrMissingKind
	}
	*e = *w.error()
	return nil
}

// ErrMissingKind is returned when decoding an Error without a kind.
var ErrMissingKind = errors.New("pathway: error payload has no kind")
