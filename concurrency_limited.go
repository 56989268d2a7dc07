package lockman

import (
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/lockman-go/lockman/internal/core"
)

// GroupID names a concurrency group. Infos sharing a GroupID under the same
// boundary are counted together against a shared limit (spec.md §4.4).
type GroupID string

// ConcurrencyLimit is either Unlimited or Limited to a fixed N >= 0.
type ConcurrencyLimit struct {
	unlimited bool
	n         int
}

// UnlimitedConcurrency returns a limit that never refuses on count alone.
func UnlimitedConcurrency() ConcurrencyLimit { return ConcurrencyLimit{unlimited: true} }

// LimitedConcurrency returns a limit admitting at most n concurrent infos
// per (boundary, group). n == 0 refuses unconditionally.
func LimitedConcurrency(n int) ConcurrencyLimit { return ConcurrencyLimit{n: n} }

func (l ConcurrencyLimit) String() string {
	if l.unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("limited(%d)", l.n)
}

// ConcurrencyLimitedInfo is the LockInfo variant for
// ConcurrencyLimitedStrategy (spec.md §4.4).
type ConcurrencyLimitedInfo struct {
	baseInfo
	groupID GroupID
	limit   ConcurrencyLimit
}

func (i ConcurrencyLimitedInfo) GroupID() GroupID        { return i.groupID }
func (i ConcurrencyLimitedInfo) Limit() ConcurrencyLimit { return i.limit }

// NewConcurrencyLimitedInfo builds a ConcurrencyLimitedInfo. Every info
// sharing groupID under the same boundary is counted against limit.
func NewConcurrencyLimitedInfo(actionID ActionID, strategyID StrategyID, groupID GroupID, limit ConcurrencyLimit, opts ...InfoOption) ConcurrencyLimitedInfo {
	b := newBaseInfo(actionID, strategyID)
	applyInfoOptions(&b, opts)
	return ConcurrencyLimitedInfo{baseInfo: b, groupID: groupID, limit: limit}
}

// concurrencyGroupKey identifies one (boundary, group) occupancy counter.
type concurrencyGroupKey struct {
	boundary any
	group    GroupID
}

// concurrencySlot pairs the semaphore for a group with the limit it was
// sized for. The slot keeps the limit of the first info that created it; a
// later info sharing the group but naming a different limit is not checked
// against it.
type concurrencySlot struct {
	sem   *semaphore.Weighted
	limit ConcurrencyLimit
}

// ConcurrencyLimitedStrategy admits up to Limit.n concurrent infos per
// (boundary, group_id) pair (spec.md §4.4). Bookkeeping for CurrentLocks
// uses the same per-boundary sequence as every other built-in, and
// CanAcquire's count over that sequence is the only admission check. A
// golang.org/x/sync/semaphore.Weighted per (boundary, group) additionally
// tracks occupied units, but Acquire records the info even when no unit is
// free, so two goroutines racing a CanAcquire/Acquire pair against the same
// group can both be recorded past the limit.
type ConcurrencyLimitedStrategy struct {
	id       StrategyID
	registry *core.Registry[BoundaryID]

	slotsMu sync.RWMutex
	slots   map[concurrencyGroupKey]*concurrencySlot
}

func NewConcurrencyLimitedStrategy(id StrategyID) *ConcurrencyLimitedStrategy {
	return &ConcurrencyLimitedStrategy{
		id:       id,
		registry: core.NewRegistry[BoundaryID](),
		slots:    make(map[concurrencyGroupKey]*concurrencySlot),
	}
}

func (s *ConcurrencyLimitedStrategy) StrategyID() StrategyID { return s.id }

func (s *ConcurrencyLimitedStrategy) groupCount(boundary BoundaryID, group GroupID) int {
	state := s.registry.StateFor(boundary)
	count := 0
	for _, e := range state.Snapshot() {
		cl, ok := e.(ConcurrencyLimitedInfo)
		if ok && cl.groupID == group {
			count++
		}
	}
	return count
}

func (s *ConcurrencyLimitedStrategy) CanAcquire(boundary BoundaryID, info LockInfo) Verdict {
	cl, ok := info.(ConcurrencyLimitedInfo)
	if !ok {
		return refuseVerdict(newStrategyError("invalid-info-type", "expected ConcurrencyLimitedInfo", info, boundary))
	}

	if cl.limit.unlimited {
		return admitVerdict()
	}
	if cl.limit.n <= 0 {
		return refuseVerdict(newStrategyError("concurrency-limit-reached",
			fmt.Sprintf("group %s has a zero limit", cl.groupID), info, boundary))
	}

	count := s.groupCount(boundary, cl.groupID)
	if count >= cl.limit.n {
		return refuseVerdict(newStrategyError("concurrency-limit-reached",
			fmt.Sprintf("group %s at capacity: %d/%d", cl.groupID, count, cl.limit.n), info, boundary))
	}
	return admitVerdict()
}

// slotFor returns the semaphore guarding boundary/group, sized for limit,
// creating it on first use. A group is expected to be used with a single,
// stable limit; slotFor keeps the first limit it observes.
func (s *ConcurrencyLimitedStrategy) slotFor(boundary BoundaryID, group GroupID, limit ConcurrencyLimit) *concurrencySlot {
	key := concurrencyGroupKey{boundary: boundary.Comparable(), group: group}

	s.slotsMu.RLock()
	slot, ok := s.slots[key]
	s.slotsMu.RUnlock()
	if ok {
		return slot
	}

	s.slotsMu.Lock()
	defer s.slotsMu.Unlock()
	if slot, ok := s.slots[key]; ok {
		return slot
	}
	n := int64(limit.n)
	if limit.unlimited || n <= 0 {
		n = 1 << 30 // effectively unlimited weight
	}
	slot = &concurrencySlot{sem: semaphore.NewWeighted(n), limit: limit}
	s.slots[key] = slot
	return slot
}

func (s *ConcurrencyLimitedStrategy) Acquire(boundary BoundaryID, info LockInfo) {
	cl, ok := info.(ConcurrencyLimitedInfo)
	if !ok {
		return
	}
	slot := s.slotFor(boundary, cl.groupID, cl.limit)
	// Best-effort: CanAcquire already admitted this info under the
	// trust contract in Strategy's doc comment. TryAcquire additionally
	// reserves a weighted unit so Release has a matching unit to return;
	// failure here (only possible under concurrent misuse) is ignored
	// rather than panicking.
	_ = slot.sem.TryAcquire(1)
	s.registry.StateFor(boundary).Append(info)
}

func (s *ConcurrencyLimitedStrategy) Release(boundary BoundaryID, info LockInfo) {
	// Only return the semaphore unit when Remove actually found and removed
	// this unique id: Remove is idempotent (a second release of the same
	// info is a no-op), but semaphore.Weighted.Release panics if called more
	// times than Acquire succeeded, so the two must stay in lockstep.
	removed := s.registry.StateFor(boundary).Remove(string(info.UniqueID()))
	if !removed {
		return
	}

	cl, ok := info.(ConcurrencyLimitedInfo)
	if !ok {
		return
	}
	s.slotsMu.RLock()
	slot, exists := s.slots[concurrencyGroupKey{boundary: boundary.Comparable(), group: cl.groupID}]
	s.slotsMu.RUnlock()
	if !exists {
		return
	}
	// An Acquire whose TryAcquire failed took no unit, so the units held are
	// min(group count, capacity): return one only while the count left after
	// this removal is below the semaphore's capacity.
	if slot.limit.unlimited || slot.limit.n <= 0 || s.groupCount(boundary, cl.groupID) < slot.limit.n {
		slot.sem.Release(1)
	}
}

func (s *ConcurrencyLimitedStrategy) ClearAll() {
	s.registry.ClearAll()
	s.slotsMu.Lock()
	s.slots = make(map[concurrencyGroupKey]*concurrencySlot)
	s.slotsMu.Unlock()
}

func (s *ConcurrencyLimitedStrategy) Clear(boundary BoundaryID) {
	s.registry.Clear(boundary)
	s.slotsMu.Lock()
	for key := range s.slots {
		if key.boundary == boundary.Comparable() {
			delete(s.slots, key)
		}
	}
	s.slotsMu.Unlock()
}

func (s *ConcurrencyLimitedStrategy) CurrentLocks() map[BoundaryID][]LockInfo {
	return snapshotToLockInfo(s.registry.Snapshot())
}
