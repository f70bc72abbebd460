// Package apperrors classifies failures so handlers can pick a status code and
// services can decide which failures the end user ever sees.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable failure class.
type Kind string

const (
	KindUnknown Kind = "UNKNOWN"
	// KindValidation is a missing or malformed caller parameter.
	KindValidation Kind = "VALIDATION"
	// KindStore is a key-value backend failure.
	KindStore Kind = "STORE"
	// KindProvider is a third-party bank or credit API failure.
	KindProvider Kind = "PROVIDER"
	// KindNotification is an email delivery failure.
	KindNotification Kind = "NOTIFICATION"
	// KindFetch is a failure to read the submission index for listing.
	KindFetch     Kind = "FETCH"
	KindNotFound  Kind = "NOT_FOUND"
	KindForbidden Kind = "FORBIDDEN"
)

// Error carries a Kind, the failing operation and an optional cause.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports a bad caller parameter.
func Validation(op, msg string) error {
	return &Error{Kind: KindValidation, Op: op, Msg: msg}
}

// Store wraps a backend failure.
func Store(op string, err error) error {
	return &Error{Kind: KindStore, Op: op, Err: err}
}

// Provider wraps a third-party API failure.
func Provider(op string, err error) error {
	return &Error{Kind: KindProvider, Op: op, Err: err}
}

// Notification wraps an email delivery failure.
func Notification(op string, err error) error {
	return &Error{Kind: KindNotification, Op: op, Err: err}
}

// Fetch wraps a listing read failure.
func Fetch(op string, err error) error {
	return &Error{Kind: KindFetch, Op: op, Err: err}
}

// NotFound reports a missing record.
func NotFound(op, msg string) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: msg}
}

// Forbidden reports a rejected credential.
func Forbidden(op, msg string) error {
	return &Error{Kind: KindForbidden, Op: op, Msg: msg}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
