package ntkit

import (
	"errors"
	"fmt"
)

// Common errors returned by the toolkit.
var (
	// ErrInvalidArgument reports a violated precondition, e.g. a composite
	// modulus passed to the Legendre symbol or gcd(0, 0).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoFactor reports that Pollard's rho did not split its input within
	// the iteration budget. The input may be prime or the attempt unlucky.
	ErrNoFactor = errors.New("no nontrivial factor found")

	// ErrNoLogarithm reports that the target is not a power of the base.
	ErrNoLogarithm = errors.New("discrete logarithm does not exist")

	// ErrNotResidue reports that a value has no square root modulo p.
	ErrNotResidue = errors.New("value is not a quadratic residue")

	// ErrRetriesExhausted reports that a randomized search ran out of its
	// retry budget. Re-invoking with fresh randomness may succeed.
	ErrRetriesExhausted = errors.New("retry budget exhausted")

	// ErrNotOnCurve reports a point that does not satisfy the curve equation.
	ErrNotOnCurve = errors.New("point is not on the curve")
)

// Error attaches the failing operation and a reason to one of the sentinel
// errors above, so callers can match with errors.Is and still log context.
type Error struct {
	Op     string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error.
func NewError(op string, err error, format string, args ...any) *Error {
	return &Error{
		Op:     op,
		Reason: fmt.Sprintf(format, args...),
		Err:    err,
	}
}
