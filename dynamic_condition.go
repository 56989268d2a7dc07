package lockman

import "github.com/lockman-go/lockman/internal/core"

// DynamicConditionPredicate evaluates an admission attempt. A nil error
// admits; a non-nil error refuses and is propagated as the Verdict's cause
// via DynamicConditionError (spec.md §4.6). The predicate must be pure with
// respect to the strategy's own state — it must not call back into the
// strategy it is attached to — and side-effect-free as observed by the
// strategy.
type DynamicConditionPredicate func(boundary BoundaryID, info LockInfo) error

// DynamicConditionInfo is the LockInfo variant for DynamicConditionStrategy
// (spec.md §4.6). The predicate is carried on the info rather than the
// strategy so that distinct actions sharing one DynamicConditionStrategy
// registration can each evaluate their own condition.
type DynamicConditionInfo struct {
	baseInfo
	predicate DynamicConditionPredicate
}

func (i DynamicConditionInfo) Predicate() DynamicConditionPredicate { return i.predicate }

// NewDynamicConditionInfo builds a DynamicConditionInfo evaluated by
// predicate at can_acquire time.
func NewDynamicConditionInfo(actionID ActionID, strategyID StrategyID, predicate DynamicConditionPredicate, opts ...InfoOption) DynamicConditionInfo {
	b := newBaseInfo(actionID, strategyID)
	applyInfoOptions(&b, opts)
	return DynamicConditionInfo{baseInfo: b, predicate: predicate}
}

// DynamicConditionStrategy admits or refuses purely by delegating to the
// caller-supplied predicate attached to each info (spec.md §4.6). It still
// keeps the common per-boundary sequence so CurrentLocks/Clear behave like
// every other built-in strategy.
type DynamicConditionStrategy struct {
	id       StrategyID
	registry *core.Registry[BoundaryID]
}

func NewDynamicConditionStrategy(id StrategyID) *DynamicConditionStrategy {
	return &DynamicConditionStrategy{id: id, registry: core.NewRegistry[BoundaryID]()}
}

func (s *DynamicConditionStrategy) StrategyID() StrategyID { return s.id }

func (s *DynamicConditionStrategy) CanAcquire(boundary BoundaryID, info LockInfo) Verdict {
	dc, ok := info.(DynamicConditionInfo)
	if !ok {
		return refuseVerdict(newStrategyError("invalid-info-type", "expected DynamicConditionInfo", info, boundary))
	}
	if dc.predicate == nil {
		return admitVerdict()
	}
	if err := dc.predicate(boundary, info); err != nil {
		return refuseVerdict(newDynamicConditionError(err, info, boundary))
	}
	return admitVerdict()
}

func (s *DynamicConditionStrategy) Acquire(boundary BoundaryID, info LockInfo) {
	s.registry.StateFor(boundary).Append(info)
}

func (s *DynamicConditionStrategy) Release(boundary BoundaryID, info LockInfo) {
	s.registry.StateFor(boundary).Remove(string(info.UniqueID()))
}

func (s *DynamicConditionStrategy) ClearAll() { s.registry.ClearAll() }

func (s *DynamicConditionStrategy) Clear(boundary BoundaryID) { s.registry.Clear(boundary) }

func (s *DynamicConditionStrategy) CurrentLocks() map[BoundaryID][]LockInfo {
	return snapshotToLockInfo(s.registry.Snapshot())
}
