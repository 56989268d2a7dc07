package lockman

import (
	"fmt"
	"strings"
)

// maxCompositeArity bounds CompositeStrategy to the 2-5 sub-strategies
// spec.md §4.7 specifies; composing more defeats the point of a fixed,
// auditable combinator.
const maxCompositeArity = 5

// CompositeInfo is the LockInfo variant for CompositeStrategy: an ordered
// tuple of sub-infos, one per sub-strategy, evaluated in the same order the
// sub-strategies were composed in (spec.md §4.7).
type CompositeInfo struct {
	baseInfo
	subInfos []LockInfo
}

// NewCompositeInfo builds a CompositeInfo. len(subInfos) must equal the
// arity of the CompositeStrategy it is used with.
func NewCompositeInfo(actionID ActionID, strategyID StrategyID, subInfos []LockInfo, opts ...InfoOption) CompositeInfo {
	b := newBaseInfo(actionID, strategyID)
	applyInfoOptions(&b, opts)
	infos := make([]LockInfo, len(subInfos))
	copy(infos, subInfos)
	return CompositeInfo{baseInfo: b, subInfos: infos}
}

// SubInfos returns the ordered sub-infos this composite info carries.
func (i CompositeInfo) SubInfos() []LockInfo {
	out := make([]LockInfo, len(i.subInfos))
	copy(out, i.subInfos)
	return out
}

// IsCancellationTarget overrides baseInfo's stored flag: a composite is a
// cancellation target iff any of its sub-infos is (spec.md §3: "is_cancellation_target
// is logical OR of sub-infos").
func (i CompositeInfo) IsCancellationTarget() bool {
	for _, sub := range i.subInfos {
		if sub.IsCancellationTarget() {
			return true
		}
	}
	return false
}

// CompositeStrategy sequences N (2 <= N <= 5) sub-strategies as a single
// strategy: can_acquire consults every sub-strategy in order, short-
// circuiting on the first refusal; acquire commits all of them and rolls
// back LIFO if a downstream acquire ever misbehaves (spec.md §4.7). The
// core never maintains its own BoundaryState for a composite — all state
// lives in the sub-strategies it wraps.
type CompositeStrategy struct {
	id   StrategyID
	subs []Strategy
}

// NewCompositeStrategy composes 2-5 sub-strategies, in order, into one
// Strategy. The resulting StrategyID's name is "CompositeStrategy<N>" and
// its configuration is the sub-strategy ids joined by "+", so order is
// significant: composing the same sub-strategies in a different order
// yields a distinct StrategyID (spec.md §4.7, §8 property 7).
func NewCompositeStrategy(subs ...Strategy) (*CompositeStrategy, error) {
	n := len(subs)
	if n < 2 || n > maxCompositeArity {
		return nil, fmt.Errorf("lockman: CompositeStrategy requires 2-%d sub-strategies, got %d", maxCompositeArity, n)
	}

	names := make([]string, n)
	for k, sub := range subs {
		names[k] = sub.StrategyID().String()
	}

	id := StrategyID{
		Name:          fmt.Sprintf("CompositeStrategy<%d>", n),
		Configuration: strings.Join(names, "+"),
	}

	ordered := make([]Strategy, n)
	copy(ordered, subs)
	return &CompositeStrategy{id: id, subs: ordered}, nil
}

func (s *CompositeStrategy) StrategyID() StrategyID { return s.id }

func (s *CompositeStrategy) CanAcquire(boundary BoundaryID, info LockInfo) Verdict {
	ci, ok := info.(CompositeInfo)
	if !ok {
		return refuseVerdict(newStrategyError("invalid-info-type", "expected CompositeInfo", info, boundary))
	}
	if len(ci.subInfos) != len(s.subs) {
		return refuseVerdict(newStrategyError("arity-mismatch",
			fmt.Sprintf("expected %d sub-infos, got %d", len(s.subs), len(ci.subInfos)), info, boundary))
	}

	var firstPreemption *precedingCancellationError

	for k, sub := range s.subs {
		verdict := sub.CanAcquire(boundary, ci.subInfos[k])
		switch verdict.Kind() {
		case Refuse:
			return refuseVerdict(verdict.Cause())
		case AdmitWithPreemption:
			if firstPreemption == nil {
				if pce, ok := verdict.Cause().(*precedingCancellationError); ok {
					firstPreemption = pce
				}
			}
		}
	}

	if firstPreemption != nil {
		return admitWithPreemptionVerdict(firstPreemption)
	}
	return admitVerdict()
}

// Acquire commits every sub-strategy in order. If a sub-strategy's Acquire
// panics, every sub-strategy already committed is released again, LIFO, and
// the panic is re-raised so the caller sees the original failure. An info
// that is not a CompositeInfo, or whose sub-info count differs from the
// number of sub-strategies, is ignored: nothing is acquired.
func (s *CompositeStrategy) Acquire(boundary BoundaryID, info LockInfo) {
	ci, ok := info.(CompositeInfo)
	if !ok || len(ci.subInfos) != len(s.subs) {
		return
	}

	acquired := 0
	for k, sub := range s.subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					// A sub-strategy panicked mid-acquire; roll back
					// everything committed so far, LIFO, then re-panic
					// so the caller sees the original failure.
					for j := acquired - 1; j >= 0; j-- {
						s.subs[j].Release(boundary, ci.subInfos[j])
					}
					panic(r)
				}
			}()
			sub.Acquire(boundary, ci.subInfos[k])
			acquired++
		}()
	}
}

func (s *CompositeStrategy) Release(boundary BoundaryID, info LockInfo) {
	ci, ok := info.(CompositeInfo)
	if !ok {
		return
	}
	n := len(s.subs)
	if len(ci.subInfos) < n {
		n = len(ci.subInfos)
	}
	for j := n - 1; j >= 0; j-- {
		s.subs[j].Release(boundary, ci.subInfos[j])
	}
}

func (s *CompositeStrategy) ClearAll() {
	for _, sub := range s.subs {
		sub.ClearAll()
	}
}

func (s *CompositeStrategy) Clear(boundary BoundaryID) {
	for _, sub := range s.subs {
		sub.Clear(boundary)
	}
}

// CurrentLocks merges every sub-strategy's view. Because each sub-strategy
// only ever stores its own sub-info (not the enclosing CompositeInfo), the
// result reflects the sub-strategies' own bookkeeping rather than whole
// composite entries — callers that need the composite view should inspect
// the sub-strategies they composed directly.
func (s *CompositeStrategy) CurrentLocks() map[BoundaryID][]LockInfo {
	merged := make(map[BoundaryID][]LockInfo)
	for _, sub := range s.subs {
		for b, infos := range sub.CurrentLocks() {
			merged[b] = append(merged[b], infos...)
		}
	}
	return merged
}
