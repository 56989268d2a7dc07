package lockman

import (
	"fmt"

	"github.com/lockman-go/lockman/internal/sentinel"
)

// Registration-level sentinel conditions. These use the sentinel.Error
// const pattern (see internal/sentinel) instead of errors.New vars: it
// prevents accidental reassignment and keeps errors.Is working through
// wrapped chains via Go's default == comparison on comparable types.
const (
	// ErrStrategyNotRegistered is returned (wrapped with the offending
	// StrategyID) by Container.Resolve when no strategy is registered
	// under the requested id. Test with errors.Is.
	ErrStrategyNotRegistered = sentinel.Error("lockman: strategy not registered")

	// ErrStrategyAlreadyRegistered is returned (wrapped with the offending
	// StrategyID) by Container.Register / RegisterAll when an entry already
	// occupies the id. Test with errors.Is.
	ErrStrategyAlreadyRegistered = sentinel.Error("lockman: strategy already registered")

	// ErrStrategyTypeMismatch is returned (wrapped with the offending
	// StrategyID) by ResolveAs when an entry exists under the requested id
	// but is not of the requested strategy type.
	ErrStrategyTypeMismatch = sentinel.Error("lockman: strategy registered with a different info type")
)

func newStrategyNotRegisteredError(id StrategyID) error {
	return ErrStrategyNotRegistered.Wrap(id.String())
}

func newStrategyAlreadyRegisteredError(id StrategyID) error {
	return ErrStrategyAlreadyRegistered.Wrap(id.String())
}

func newStrategyTypeMismatchError(id StrategyID) error {
	return ErrStrategyTypeMismatch.Wrap(id.String())
}

// LockmanError is the common shape of every strategy-produced arbitration
// error: it names the info that was evaluated and the boundary it was
// evaluated against (spec.md §7: "carry at minimum lockman_info and
// boundary_id"). Refuse and AdmitWithPreemption verdicts both carry a
// LockmanError as their Cause.
type LockmanError interface {
	error

	// Info is the LockInfo that was being evaluated when the error arose.
	Info() LockInfo

	// Boundary is the boundary the evaluation happened against.
	Boundary() BoundaryID
}

// strategyError is the concrete LockmanError implementation shared by every
// built-in strategy. Kind distinguishes the refusal reason for callers that
// want to branch on it without string-matching Error() — the idiomatic Go
// substitute for spec.md §7's "variants, not type names" taxonomy.
type strategyError struct {
	kind     string
	message  string
	info     LockInfo
	boundary BoundaryID
	cause    error
}

func newStrategyError(kind, message string, info LockInfo, boundary BoundaryID) *strategyError {
	return &strategyError{kind: kind, message: message, info: info, boundary: boundary}
}

func (e *strategyError) Error() string {
	return fmt.Sprintf("lockman: %s in boundary %s: %s", e.info.ActionID(), e.boundary, e.message)
}

func (e *strategyError) Info() LockInfo       { return e.info }
func (e *strategyError) Boundary() BoundaryID { return e.boundary }

// Unwrap returns the error this refusal was built from, if any (e.g. the
// registration error behind a "strategy-not-registered" refusal).
func (e *strategyError) Unwrap() error { return e.cause }

// Kind returns a short, stable identifier for the refusal reason, e.g.
// "boundary-locked", "action-already-running", "priority-too-low",
// "concurrency-limit-reached", "group-leader-absent", "dynamic-refused".
func (e *strategyError) Kind() string { return e.kind }

// precedingCancellationError is a strategyError that additionally identifies
// the existing info being displaced by an admit-with-preemption verdict. It
// satisfies LockmanError for the *new* info/boundary via the embedded
// strategyError and separately exposes the displaced info.
type precedingCancellationError struct {
	*strategyError
	preceding LockInfo
}

func newPrecedingCancellationError(kind, message string, newInfo, preceding LockInfo, boundary BoundaryID) *precedingCancellationError {
	return &precedingCancellationError{
		strategyError: newStrategyError(kind, message, newInfo, boundary),
		preceding:     preceding,
	}
}

// Preceding returns the existing LockInfo that the caller should cancel
// before proceeding with the newly admitted action.
func (e *precedingCancellationError) Preceding() LockInfo { return e.preceding }

// DynamicConditionError wraps a caller-supplied error returned by a
// DynamicCondition predicate, preserving it for errors.As/errors.Unwrap
// while still satisfying LockmanError.
type DynamicConditionError struct {
	*strategyError
	cause error
}

func (e *DynamicConditionError) Unwrap() error { return e.cause }

func newDynamicConditionError(cause error, info LockInfo, boundary BoundaryID) *DynamicConditionError {
	msg := "dynamic condition refused"
	if cause != nil {
		msg = fmt.Sprintf("dynamic condition refused: %s", cause)
	}
	return &DynamicConditionError{
		strategyError: newStrategyError("dynamic-refused", msg, info, boundary),
		cause:         cause,
	}
}
