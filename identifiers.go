package lockman

import (
	"fmt"

	"github.com/google/uuid"
)

// BoundaryID names a namespace that actions contend within — a UI screen, a
// feature module, a request scope. Two BoundaryIDs are equal iff the
// comparable values they box are equal, which is exactly Go's native ==
// comparison on the boxed value: there is no reflection or hashing involved,
// unlike the type-erased-wrapper design a reflection-free language would
// need.
type BoundaryID interface {
	// Comparable returns the boxed value for equality and use as a map key.
	Comparable() any

	fmt.Stringer
}

// boundaryID boxes any comparable value as a BoundaryID.
type boundaryID[T comparable] struct {
	value T
}

// NewBoundaryID boxes a comparable value as a BoundaryID. T must be
// comparable so that two BoundaryIDs compare equal iff their boxed values
// are equal — the contract spec.md §3 requires of the identifier.
func NewBoundaryID[T comparable](value T) BoundaryID {
	return boundaryID[T]{value: value}
}

func (b boundaryID[T]) Comparable() any { return b.value }

func (b boundaryID[T]) String() string { return fmt.Sprintf("%v", b.value) }

// ActionID identifies a caller-side operation attempting to start. It is
// opaque to the core: no built-in strategy inspects its structure beyond
// equality.
type ActionID string

// StrategyID names a registered strategy. Value is Name alone, or
// "Name:Configuration" when Configuration is non-empty. Used verbatim as
// the Container's registration key.
type StrategyID struct {
	Name          string
	Configuration string
}

// NewStrategyID returns a StrategyID with no configuration suffix.
func NewStrategyID(name string) StrategyID {
	return StrategyID{Name: name}
}

// NewConfiguredStrategyID returns a StrategyID qualified by configuration —
// used by strategy instances that are registered under more than one
// configuration (e.g. two independently-tuned ConcurrencyLimited strategies).
func NewConfiguredStrategyID(name, configuration string) StrategyID {
	return StrategyID{Name: name, Configuration: configuration}
}

func (id StrategyID) String() string {
	if id.Configuration == "" {
		return id.Name
	}
	return id.Name + ":" + id.Configuration
}

// UniqueID is a fresh, process-unique value minted once per LockInfo
// instance. Equality of LockInfo is defined entirely in terms of UniqueID
// (spec.md §3): two infos with identical ActionIDs are still distinct locks.
type UniqueID string

func (id UniqueID) String() string { return string(id) }

// NewUniqueID mints a fresh process-unique id. Backed by uuid.NewString
// (random, version 4) rather than a hand-rolled counter or timestamp: the
// spec requires only freshness and stability, not sortability, and the
// retrieval pack's own libraries (beads, codenerd, quarry) all reach for
// google/uuid for exactly this contract.
func NewUniqueID() UniqueID {
	return UniqueID(uuid.NewString())
}
