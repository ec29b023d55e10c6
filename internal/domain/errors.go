package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindTypeMismatch ErrorKind = "type_mismatch"
	KindConflict     ErrorKind = "conflict"
	KindAuth         ErrorKind = "auth"
)

// Error is the business error returned by services. Anything that is not an
// *Error is treated as an internal failure by the transport layer.
type Error struct {
	Kind ErrorKind
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

func Validation(msg string) error   { return &Error{Kind: KindValidation, Msg: msg} }
func NotFound(msg string) error     { return &Error{Kind: KindNotFound, Msg: msg} }
func TypeMismatch(msg string) error { return &Error{Kind: KindTypeMismatch, Msg: msg} }
func Conflict(msg string, err error) error {
	return &Error{Kind: KindConflict, Msg: msg, Err: err}
}
func Unauthorized(msg string) error { return &Error{Kind: KindAuth, Msg: msg} }

var (
	// ErrDuplicate is returned by repositories on unique-key violations.
	ErrDuplicate = errors.New("duplicate key")
	// ErrNoRecord is returned by repository deletes and updates that matched nothing.
	ErrNoRecord = errors.New("record not found")
)

// KindOf reports the kind of a business error, or "" for internal errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
