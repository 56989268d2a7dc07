package lockman

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPriorityBasedStrategy_LowerPriorityRefused(t *testing.T) {
	t.Parallel()

	s := NewPriorityBasedStrategy(NewStrategyID("priority-1"))
	boundary := NewBoundaryID("x")

	high := NewPriorityBasedInfo("a", s.StrategyID(), Priority{Rank: PriorityHigh, Behavior: PriorityExclusive}, false)
	s.Acquire(boundary, high)

	low := NewPriorityBasedInfo("b", s.StrategyID(), Priority{Rank: PriorityLow, Behavior: PriorityReplaceable}, false)
	v := s.CanAcquire(boundary, low)
	require.Equal(t, Refuse, v.Kind())
}

func TestPriorityBasedStrategy_HigherPriorityPreemptsReplaceable(t *testing.T) {
	t.Parallel()

	s := NewPriorityBasedStrategy(NewStrategyID("priority-2"))
	boundary := NewBoundaryID("x")

	low := NewPriorityBasedInfo("a", s.StrategyID(), Priority{Rank: PriorityLow, Behavior: PriorityReplaceable}, false)
	s.Acquire(boundary, low)

	high := NewPriorityBasedInfo("b", s.StrategyID(), Priority{Rank: PriorityHigh, Behavior: PriorityExclusive}, false)
	v := s.CanAcquire(boundary, high)
	require.Equal(t, AdmitWithPreemption, v.Kind())
	require.Equal(t, ActionID("a"), v.Preceding().ActionID())
}

func TestPriorityBasedStrategy_HigherPriorityRefusedByExclusive(t *testing.T) {
	t.Parallel()

	s := NewPriorityBasedStrategy(NewStrategyID("priority-3"))
	boundary := NewBoundaryID("x")

	high := NewPriorityBasedInfo("a", s.StrategyID(), Priority{Rank: PriorityHigh, Behavior: PriorityExclusive}, false)
	s.Acquire(boundary, high)

	// Scenario 4 (spec.md §8): acquire(high exclusive, a); can_acquire(low, b) -> refuse.
	low := NewPriorityBasedInfo("b", s.StrategyID(), Priority{Rank: PriorityLow, Behavior: PriorityReplaceable}, false)
	require.Equal(t, Refuse, s.CanAcquire(boundary, low).Kind())
}

func TestPriorityBasedStrategy_NoneNeverBlocksOrPreempts(t *testing.T) {
	t.Parallel()

	s := NewPriorityBasedStrategy(NewStrategyID("priority-4"))
	boundary := NewBoundaryID("x")

	high := NewPriorityBasedInfo("a", s.StrategyID(), Priority{Rank: PriorityHigh, Behavior: PriorityExclusive}, false)
	s.Acquire(boundary, high)

	none := NewPriorityBasedInfo("b", s.StrategyID(), Priority{Rank: PriorityNone}, false)
	v := s.CanAcquire(boundary, none)
	require.Equal(t, Admit, v.Kind())
}

func TestPriorityBasedStrategy_BlocksSameAction(t *testing.T) {
	t.Parallel()

	s := NewPriorityBasedStrategy(NewStrategyID("priority-5"))
	boundary := NewBoundaryID("x")

	first := NewPriorityBasedInfo("a", s.StrategyID(), Priority{Rank: PriorityLow, Behavior: PriorityReplaceable}, true)
	s.Acquire(boundary, first)

	second := NewPriorityBasedInfo("a", s.StrategyID(), Priority{Rank: PriorityLow, Behavior: PriorityReplaceable}, true)
	v := s.CanAcquire(boundary, second)
	require.Equal(t, Refuse, v.Kind())
}

func TestPriorityBasedStrategy_EqualRankTieBrokenByMostRecent(t *testing.T) {
	t.Parallel()

	s := NewPriorityBasedStrategy(NewStrategyID("priority-6"))
	boundary := NewBoundaryID("x")

	a := NewPriorityBasedInfo("a", s.StrategyID(), Priority{Rank: PriorityLow, Behavior: PriorityReplaceable}, false)
	s.Acquire(boundary, a)
	b := NewPriorityBasedInfo("b", s.StrategyID(), Priority{Rank: PriorityLow, Behavior: PriorityReplaceable}, false)
	s.Acquire(boundary, b)

	c := NewPriorityBasedInfo("c", s.StrategyID(), Priority{Rank: PriorityLow, Behavior: PriorityReplaceable}, false)
	v := s.CanAcquire(boundary, c)
	require.Equal(t, AdmitWithPreemption, v.Kind())
	require.Equal(t, ActionID("b"), v.Preceding().ActionID())
}
