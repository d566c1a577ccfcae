package proofctx

import (
	"errors"
	"fmt"
)

// ErrKind classifies a proof-attempt failure, per spec.md §7.
type ErrKind int

const (
	// KindMalformed: unknown constant, type mismatch, rule invariants
	// violated. Surfaced synchronously; the attempt aborts.
	KindMalformed ErrKind = iota
	// KindMethodAborted: polymorphism blocked the polynomial method, SAT
	// returned UNSAT, or no rule was strictly oriented. Recoverable --
	// the driver tries the next method.
	KindMethodAborted
	// KindSolverTimeout: the external SAT solver exceeded its wall-clock
	// budget. Treated as KindMethodAborted by the driver.
	KindSolverTimeout
	// KindInternal: an internal invariant was violated (unexpected
	// polynomial shape, CNF conversion returned nothing, a
	// precedence-equal query against a non-alphabet pair). Logged; the
	// caller continues with a conservative value.
	KindInternal
)

func (k ErrKind) String() string {
	switch k {
	case KindMalformed:
		return "malformed-input"
	case KindMethodAborted:
		return "method-aborted"
	case KindSolverTimeout:
		return "solver-timeout"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the core's uniform error type: every fallible operation
// returns this (or nil), tagged with the ErrKind that classifies it.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Malformed builds a KindMalformed error.
func Malformed(format string, args ...any) error {
	return &Error{Kind: KindMalformed, Msg: fmt.Sprintf(format, args...)}
}

// Aborted builds a KindMethodAborted error.
func Aborted(format string, args ...any) error {
	return &Error{Kind: KindMethodAborted, Msg: fmt.Sprintf(format, args...)}
}

// Timeout builds a KindSolverTimeout error.
func Timeout(format string, args ...any) error {
	return &Error{Kind: KindSolverTimeout, Msg: fmt.Sprintf(format, args...)}
}

// Internal builds a KindInternal error.
func Internal(format string, args ...any) error {
	return &Error{Kind: KindInternal, Msg: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err (or something it wraps) is a *Error of kind.
func IsKind(err error, kind ErrKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// LogInternal records a non-fatal internal-invariant violation on the
// Context's logger at Error level, per spec.md §7's "logged as an error
// on stderr but the caller continues with a conservative answer."
func (c *Context) LogInternal(format string, args ...any) {
	c.Log.Errorf(format, args...)
}
