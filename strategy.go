package lockman

// Strategy is the arbitration contract every built-in and custom policy
// implements (spec.md §4.1). CanAcquire must be pure: it must not mutate
// state, and calling it twice in a row on the same input must yield the
// same verdict absent an intervening Acquire/Release from another actor.
// Acquire must only be called after a CanAcquire that returned Admit or
// AdmitWithPreemption, with the same info — callers are trusted, but
// implementations must still never panic if that discipline is violated.
//
// State mutations of a single boundary are serialized by the
// implementation; mutations across distinct boundaries may proceed in
// parallel.
type Strategy interface {
	// CanAcquire reports whether info may start in boundary, without
	// mutating any state.
	CanAcquire(boundary BoundaryID, info LockInfo) Verdict

	// Acquire records info as active in boundary. Must only follow a
	// CanAcquire that admitted the same info.
	Acquire(boundary BoundaryID, info LockInfo)

	// Release removes the entry whose UniqueID matches info's. Idempotent:
	// releasing an info that is not present (already released, or never
	// acquired) is a no-op.
	Release(boundary BoundaryID, info LockInfo)

	// ClearAll empties every boundary's state.
	ClearAll()

	// Clear empties a single boundary's state.
	Clear(boundary BoundaryID)

	// CurrentLocks returns a read-only snapshot of every boundary's active
	// entries.
	CurrentLocks() map[BoundaryID][]LockInfo

	// StrategyID returns the id this strategy instance is registered under.
	StrategyID() StrategyID
}
