package model

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error. The HTTP layer maps each kind to one status.
type Kind int

const (
	// KindStore covers connectivity and query failures of the backing store.
	KindStore Kind = iota
	// KindValidation covers missing or malformed input.
	KindValidation
	// KindConflict is returned when an open "in" session already exists.
	KindConflict
	// KindNotFound covers unknown trucks, sessions, containers and files.
	KindNotFound
	// KindStateOrdering is a server-detected ledger ordering violation.
	KindStateOrdering
	// KindComputation is a net-weight computation failure.
	KindComputation
)

// String returns the machine-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindStateOrdering:
		return "state_ordering"
	case KindComputation:
		return "computation"
	default:
		return "store"
	}
}

// Error is the error type returned by the weighing engine and registry.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Sentinel errors; compare with errors.Is.
var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrConflict      = &Error{Kind: KindConflict}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrStateOrdering = &Error{Kind: KindStateOrdering}
	ErrComputation   = &Error{Kind: KindComputation}
	ErrStore         = &Error{Kind: KindStore}
)

// Messages surfaced to clients for the fixed error cases.
const (
	MsgActiveSession  = "an active in session already exists"
	MsgNoOpenSession  = "no in session found, cannot proceed with out"
	MsgStandaloneOpen = "a standalone weighing cannot be recorded while an in session is open"
)

// Validationf builds a validation error.
func Validationf(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a not-found error.
func NotFoundf(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: fmt.Sprintf(format, args...)}
}

// StoreError wraps a store failure. Already-classified errors pass through.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindStore, Op: op, Message: "store operation failed", Err: err}
}

// KindOf returns the kind of err, KindStore for unclassified errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStore
}
