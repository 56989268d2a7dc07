package lockman

import "github.com/lockman-go/lockman/internal/core"

// SingleExecutionMode selects what SingleExecutionInfo is exclusive over.
type SingleExecutionMode int

const (
	// SingleExecutionNone always admits — SingleExecution is inert in this
	// mode (useful as a placeholder when composing strategies generically).
	SingleExecutionNone SingleExecutionMode = iota
	// SingleExecutionBoundary refuses whenever the boundary already holds
	// any active lock, regardless of action id.
	SingleExecutionBoundary
	// SingleExecutionAction refuses whenever the boundary already holds a
	// lock sharing this info's ActionID.
	SingleExecutionAction
)

func (m SingleExecutionMode) String() string {
	switch m {
	case SingleExecutionNone:
		return "none"
	case SingleExecutionBoundary:
		return "boundary"
	case SingleExecutionAction:
		return "action"
	default:
		return "unknown"
	}
}

// SingleExecutionInfo is the LockInfo variant for SingleExecutionStrategy
// (spec.md §4.2).
type SingleExecutionInfo struct {
	baseInfo
	mode SingleExecutionMode
}

// Mode reports which exclusivity mode this info was constructed with.
func (i SingleExecutionInfo) Mode() SingleExecutionMode { return i.mode }

// NewSingleExecutionInfo builds a SingleExecutionInfo for actionID under
// strategyID, exclusive according to mode.
func NewSingleExecutionInfo(actionID ActionID, strategyID StrategyID, mode SingleExecutionMode, opts ...InfoOption) SingleExecutionInfo {
	b := newBaseInfo(actionID, strategyID)
	applyInfoOptions(&b, opts)
	return SingleExecutionInfo{baseInfo: b, mode: mode}
}

// SingleExecutionStrategy admits at most one (per mode) action per boundary
// (spec.md §4.2).
type SingleExecutionStrategy struct {
	id       StrategyID
	registry *core.Registry[BoundaryID]
}

// NewSingleExecutionStrategy returns a SingleExecutionStrategy registered
// under the given StrategyID.
func NewSingleExecutionStrategy(id StrategyID) *SingleExecutionStrategy {
	return &SingleExecutionStrategy{id: id, registry: core.NewRegistry[BoundaryID]()}
}

func (s *SingleExecutionStrategy) StrategyID() StrategyID { return s.id }

func (s *SingleExecutionStrategy) CanAcquire(boundary BoundaryID, info LockInfo) Verdict {
	se, ok := info.(SingleExecutionInfo)
	if !ok {
		return refuseVerdict(newStrategyError("invalid-info-type", "expected SingleExecutionInfo", info, boundary))
	}

	state := s.registry.StateFor(boundary)

	switch se.mode {
	case SingleExecutionNone:
		return admitVerdict()

	case SingleExecutionBoundary:
		if first, ok := state.First(); ok {
			existing := first.(LockInfo)
			return refuseVerdict(newStrategyError("boundary-locked",
				"boundary already locked by "+string(existing.ActionID()), info, boundary))
		}
		return admitVerdict()

	case SingleExecutionAction:
		currents := state.Currents(string(se.ActionID()))
		if len(currents) > 0 {
			existing := currents[0].(LockInfo)
			return refuseVerdict(newStrategyError("action-already-running",
				"action already running: "+string(existing.ActionID()), info, boundary))
		}
		return admitVerdict()

	default:
		return refuseVerdict(newStrategyError("invalid-mode", "unrecognized SingleExecutionMode", info, boundary))
	}
}

func (s *SingleExecutionStrategy) Acquire(boundary BoundaryID, info LockInfo) {
	s.registry.StateFor(boundary).Append(info)
}

func (s *SingleExecutionStrategy) Release(boundary BoundaryID, info LockInfo) {
	s.registry.StateFor(boundary).Remove(string(info.UniqueID()))
}

func (s *SingleExecutionStrategy) ClearAll() { s.registry.ClearAll() }

func (s *SingleExecutionStrategy) Clear(boundary BoundaryID) { s.registry.Clear(boundary) }

func (s *SingleExecutionStrategy) CurrentLocks() map[BoundaryID][]LockInfo {
	return snapshotToLockInfo(s.registry.Snapshot())
}

// snapshotToLockInfo converts a core.Registry snapshot (keyed by BoundaryID,
// valued by core.Entry) back into the public LockInfo-valued shape. Every
// entry ever appended through a strategy's Acquire is a LockInfo value, so
// this type assertion cannot fail for entries this package produced.
func snapshotToLockInfo(snap map[BoundaryID][]core.Entry) map[BoundaryID][]LockInfo {
	out := make(map[BoundaryID][]LockInfo, len(snap))
	for b, entries := range snap {
		infos := make([]LockInfo, len(entries))
		for i, e := range entries {
			infos[i] = e.(LockInfo)
		}
		out[b] = infos
	}
	return out
}
