package sentinel

import "fmt"

// Compile-time check that Error implements the error interface.
var _ error = Error("")

// Error is an immutable error type backed by a string constant.
// Unlike errors.New, which returns a pointer and must be stored in a var,
// Error values can be declared as const, preventing reassignment.
//
// errors.Is compatibility: since Error is a comparable type, the default
// == comparison used by errors.Is works correctly through wrapped error chains.
type Error string

// Error implements the error interface.
func (e Error) Error() string {
	return string(e)
}

// Wrap annotates e with detail while keeping e reachable via errors.Is/
// errors.As through the result. Callers that need to attach per-occurrence
// context (an offending id, a boundary name) to a sentinel without losing
// its identity should use this instead of hand-rolling fmt.Errorf("%w: …").
func (e Error) Wrap(detail string) error {
	return fmt.Errorf("%w: %s", e, detail)
}
