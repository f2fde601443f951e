package workflow

import (
	"errors"
	"fmt"

	"github.com/SebastinST/tms-backend/internal/store"
)

// Kind classifies workflow failures. Every error returned by the engine
// carries exactly one kind; NotFound and Forbidden are never conflated.
type Kind string

const (
	KindInvalidInput      Kind = "invalid_input"
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindInvalidTransition Kind = "invalid_transition"
	KindConflict          Kind = "conflict"
	KindInternal          Kind = "internal"
)

// Error is a workflow failure with a kind and a human-readable message
// naming the identifiers involved.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a workflow error, or KindInternal for
// anything else.
func KindOf(err error) Kind {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Kind
	}
	return KindInternal
}

// Is reports whether err is a workflow error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func errf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapf(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// storeErr maps storage failures onto the workflow taxonomy. NotFound
// and duplicate/stale errors keep their meaning; everything else is an
// infrastructure fault.
func storeErr(err error, context string) *Error {
	switch {
	case store.IsNotFound(err):
		return wrapf(KindNotFound, err, "%s", context)
	case store.IsAlreadyExists(err):
		return wrapf(KindConflict, err, "%s", context)
	case store.IsStaleWrite(err):
		return wrapf(KindConflict, err, "%s", context)
	default:
		return wrapf(KindInternal, err, "%s", context)
	}
}
