package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
//
// Semantic failures always derive from one of the first six; use [errors.Is]
// or [KindOf] to classify an error returned by a validator or the evaluator.
var (
	ErrMalformedNode  = NewError("malformed node")
	ErrType           = NewError("type error")
	ErrConstraint     = NewError("constraint violation")
	ErrDuplicate      = NewError("duplicate declaration")
	ErrUnresolved     = NewError("unresolved reference")
	ErrAllocation     = NewError("allocation failure")
	ErrDivisionByZero = newDerivedError("division by zero", ErrConstraint)

	// ErrBranch reports a conditional whose branches contain failures. It
	// wraps the first failure, so [KindOf] classifies it by that cause.
	ErrBranch = NewError("conditional branch failed")

	ErrDecode         = NewError("decode syntax tree")
	ErrUnknownCommand = NewError("unknown command kind")
	ErrUnknownExpr    = NewError("unknown expression shape")
)

// ErrorKind classifies a semantic failure.
type ErrorKind int

const (
	KindNone          ErrorKind = iota // none
	KindMalformedNode                  // malformed
	KindType                           // type
	KindConstraint                     // constraint
	KindDuplicate                      // duplicate
	KindUnresolved                     // unresolved
	KindAllocation                     // allocation
)

// KindOf reports the semantic kind of err, or [KindNone] if err does not
// derive from one of the semantic sentinels.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMalformedNode):
		return KindMalformedNode
	case errors.Is(err, ErrType):
		return KindType
	case errors.Is(err, ErrConstraint):
		return KindConstraint
	case errors.Is(err, ErrDuplicate):
		return KindDuplicate
	case errors.Is(err, ErrUnresolved):
		return KindUnresolved
	case errors.Is(err, ErrAllocation):
		return KindAllocation
	default:
		return KindNone
	}
}

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	base  *Error      // Sentinel this error was derived from
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.base = e

	return e
}

// newDerivedError creates a sentinel that also matches parent under
// [errors.Is]. Do not call Wrap or Because on the result; they replace the
// link to parent.
func newDerivedError(msg string, parent *Error) *Error {
	e := &Error{msg: msg, err: parent}
	e.base = e

	return e
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e was derived from target by [Error.With] or
// [Error.Wrap].
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.base == nil {
		return false
	}

	return e.base == t.base
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Attrs returns a copy of the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr {
	return append([]slog.Attr(nil), e.attrs...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
		base:  e.base,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
		base:  e.base,
	}
}

// Because annotates the error with a human-readable reason. The reason
// becomes the wrapped cause, so it shows up in Error() after the sentinel
// message.
func (e *Error) Because(reason string) *Error {
	return e.Wrap(errors.New(reason))
}
