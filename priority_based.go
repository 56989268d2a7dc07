package lockman

import "github.com/lockman-go/lockman/internal/core"

// PriorityRank orders PriorityBasedInfo values. None never blocks and is
// never blocked; numeric order is None < Low < High (spec.md §4.3).
type PriorityRank int

const (
	PriorityNone PriorityRank = iota
	PriorityLow
	PriorityHigh
)

func (r PriorityRank) String() string {
	switch r {
	case PriorityNone:
		return "none"
	case PriorityLow:
		return "low"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// PriorityBehavior is orthogonal to PriorityRank: it decides what happens
// when an info of higher or equal rank arrives while this one is the
// current top holder.
type PriorityBehavior int

const (
	// PriorityExclusive refuses any higher- or equal-ranked arrival.
	PriorityExclusive PriorityBehavior = iota
	// PriorityReplaceable admits a higher- or equal-ranked arrival,
	// preempting this one.
	PriorityReplaceable
)

func (b PriorityBehavior) String() string {
	if b == PriorityReplaceable {
		return "replaceable"
	}
	return "exclusive"
}

// Priority pairs a PriorityRank with a PriorityBehavior. Behavior is
// meaningless for PriorityNone (None never blocks and never preempts) but
// is still stored for symmetry.
type Priority struct {
	Rank     PriorityRank
	Behavior PriorityBehavior
}

// PriorityBasedInfo is the LockInfo variant for PriorityBasedStrategy
// (spec.md §4.3).
type PriorityBasedInfo struct {
	baseInfo
	priority         Priority
	blocksSameAction bool
}

func (i PriorityBasedInfo) Priority() Priority { return i.priority }

// NewPriorityBasedInfo builds a PriorityBasedInfo. blocksSameAction, when
// true, causes this info to be refused if it arrives at the same rank as the
// current top holder and shares that holder's ActionID, rather than being
// treated via the normal tie-break rule. The holder's own flag is not
// consulted.
func NewPriorityBasedInfo(actionID ActionID, strategyID StrategyID, priority Priority, blocksSameAction bool, opts ...InfoOption) PriorityBasedInfo {
	b := newBaseInfo(actionID, strategyID)
	applyInfoOptions(&b, opts)
	return PriorityBasedInfo{baseInfo: b, priority: priority, blocksSameAction: blocksSameAction}
}

// PriorityBasedStrategy admits, refuses, or preempts according to relative
// Priority (spec.md §4.3).
type PriorityBasedStrategy struct {
	id       StrategyID
	registry *core.Registry[BoundaryID]
}

func NewPriorityBasedStrategy(id StrategyID) *PriorityBasedStrategy {
	return &PriorityBasedStrategy{id: id, registry: core.NewRegistry[BoundaryID]()}
}

func (s *PriorityBasedStrategy) StrategyID() StrategyID { return s.id }

// highestCurrent returns the highest-priority active entry, ties broken by
// most-recent insertion (spec.md §4.3 step 2: "ties broken by most-recent
// insertion").
func highestCurrent(state *core.BoundaryState) (PriorityBasedInfo, bool) {
	snapshot := state.Snapshot()
	if len(snapshot) == 0 {
		return PriorityBasedInfo{}, false
	}
	best := snapshot[0].(LockInfo).(PriorityBasedInfo)
	for _, e := range snapshot[1:] {
		cand := e.(LockInfo).(PriorityBasedInfo)
		if cand.priority.Rank >= best.priority.Rank {
			best = cand
		}
	}
	return best, true
}

func (s *PriorityBasedStrategy) CanAcquire(boundary BoundaryID, info LockInfo) Verdict {
	pb, ok := info.(PriorityBasedInfo)
	if !ok {
		return refuseVerdict(newStrategyError("invalid-info-type", "expected PriorityBasedInfo", info, boundary))
	}

	state := s.registry.StateFor(boundary)
	cur, ok := highestCurrent(state)
	if !ok {
		return admitVerdict()
	}

	// None never blocks and is never blocked, regardless of which side of
	// the comparison it's on: it only ever admits alongside whatever else
	// is active, never preempting and never being refused.
	if pb.priority.Rank == PriorityNone || cur.priority.Rank == PriorityNone {
		return admitVerdict()
	}

	switch {
	case pb.priority.Rank < cur.priority.Rank:
		return refuseVerdict(newStrategyError("priority-too-low",
			"lower priority than current holder "+string(cur.ActionID()), info, boundary))

	case pb.priority.Rank > cur.priority.Rank:
		if cur.priority.Behavior == PriorityExclusive {
			return refuseVerdict(newStrategyError("priority-exclusive",
				"current holder "+string(cur.ActionID())+" is exclusive", info, boundary))
		}
		return admitWithPreemptionVerdict(newPrecedingCancellationError(
			"priority-preempted", "preempting lower priority holder "+string(cur.ActionID()), info, cur, boundary))

	default: // equal rank, neither side PriorityNone (handled above)
		if pb.blocksSameAction && cur.ActionID() == pb.ActionID() {
			return refuseVerdict(newStrategyError("same-action-blocked",
				"blocks_same_action set and action already running", info, boundary))
		}
		if cur.priority.Behavior == PriorityExclusive {
			return refuseVerdict(newStrategyError("priority-exclusive",
				"current holder "+string(cur.ActionID())+" is exclusive", info, boundary))
		}
		return admitWithPreemptionVerdict(newPrecedingCancellationError(
			"priority-preempted", "preempting same-priority replaceable holder "+string(cur.ActionID()), info, cur, boundary))
	}
}

func (s *PriorityBasedStrategy) Acquire(boundary BoundaryID, info LockInfo) {
	s.registry.StateFor(boundary).Append(info)
}

func (s *PriorityBasedStrategy) Release(boundary BoundaryID, info LockInfo) {
	s.registry.StateFor(boundary).Remove(string(info.UniqueID()))
}

func (s *PriorityBasedStrategy) ClearAll() { s.registry.ClearAll() }

func (s *PriorityBasedStrategy) Clear(boundary BoundaryID) { s.registry.Clear(boundary) }

func (s *PriorityBasedStrategy) CurrentLocks() map[BoundaryID][]LockInfo {
	return snapshotToLockInfo(s.registry.Snapshot())
}
