package lockman

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCompositeStrategy_RejectsBadArity(t *testing.T) {
	t.Parallel()

	one := NewSingleExecutionStrategy(NewStrategyID("solo"))
	_, err := NewCompositeStrategy(one)
	require.Error(t, err)

	six := make([]Strategy, 6)
	for i := range six {
		six[i] = NewSingleExecutionStrategy(NewStrategyID("solo"))
	}
	_, err = NewCompositeStrategy(six...)
	require.Error(t, err)
}

func TestCompositeStrategy_IDIsOrderSensitive(t *testing.T) {
	t.Parallel()

	se := NewSingleExecutionStrategy(NewStrategyID("SingleExecutionStrategy"))
	pb := NewPriorityBasedStrategy(NewStrategyID("PriorityBasedStrategy"))

	forward, err := NewCompositeStrategy(se, pb)
	require.NoError(t, err)
	backward, err := NewCompositeStrategy(pb, se)
	require.NoError(t, err)

	require.NotEqual(t, forward.StrategyID(), backward.StrategyID())

	forwardAgain, err := NewCompositeStrategy(se, pb)
	require.NoError(t, err)
	require.Equal(t, forward.StrategyID(), forwardAgain.StrategyID())
}

func TestCompositeStrategy_AllSubStrategiesMustAdmit(t *testing.T) {
	t.Parallel()

	se := NewSingleExecutionStrategy(NewStrategyID("SingleExecutionStrategy"))
	pb := NewPriorityBasedStrategy(NewStrategyID("PriorityBasedStrategy"))
	composite, err := NewCompositeStrategy(se, pb)
	require.NoError(t, err)
	boundary := NewBoundaryID("x")

	seInfo := NewSingleExecutionInfo("a", se.StrategyID(), SingleExecutionBoundary)
	pbInfo := NewPriorityBasedInfo("a", pb.StrategyID(), Priority{Rank: PriorityLow, Behavior: PriorityReplaceable}, false)
	combined := NewCompositeInfo("a", composite.StrategyID(), []LockInfo{seInfo, pbInfo})

	v := composite.CanAcquire(boundary, combined)
	require.True(t, v.IsAdmitted())
	composite.Acquire(boundary, combined)

	// Composite refuses as soon as any sub-strategy refuses, without
	// consulting later sub-strategies: here SingleExecutionStrategy(a) is
	// still active, so its sub-verdict alone refuses the combined attempt
	// regardless of what PriorityBased would have said.
	seInfo2 := NewSingleExecutionInfo("b", se.StrategyID(), SingleExecutionBoundary)
	pbInfo2 := NewPriorityBasedInfo("b", pb.StrategyID(), Priority{Rank: PriorityHigh, Behavior: PriorityExclusive}, false)
	combined2 := NewCompositeInfo("b", composite.StrategyID(), []LockInfo{seInfo2, pbInfo2})

	v2 := composite.CanAcquire(boundary, combined2)
	require.Equal(t, Refuse, v2.Kind())
}

func TestCompositeStrategy_PreemptionSurfacesFromSubStrategy(t *testing.T) {
	t.Parallel()

	se := NewSingleExecutionStrategy(NewStrategyID("SingleExecutionStrategy"))
	pb := NewPriorityBasedStrategy(NewStrategyID("PriorityBasedStrategy"))
	composite, err := NewCompositeStrategy(se, pb)
	require.NoError(t, err)
	boundary := NewBoundaryID("x")

	seInfo := NewSingleExecutionInfo("a", se.StrategyID(), SingleExecutionNone)
	pbInfo := NewPriorityBasedInfo("a", pb.StrategyID(), Priority{Rank: PriorityLow, Behavior: PriorityReplaceable}, false)
	combined := NewCompositeInfo("a", composite.StrategyID(), []LockInfo{seInfo, pbInfo})
	composite.Acquire(boundary, combined)

	seInfo2 := NewSingleExecutionInfo("b", se.StrategyID(), SingleExecutionNone)
	pbInfo2 := NewPriorityBasedInfo("b", pb.StrategyID(), Priority{Rank: PriorityHigh, Behavior: PriorityExclusive}, false)
	combined2 := NewCompositeInfo("b", composite.StrategyID(), []LockInfo{seInfo2, pbInfo2})

	v := composite.CanAcquire(boundary, combined2)
	require.Equal(t, AdmitWithPreemption, v.Kind())
	require.Equal(t, ActionID("a"), v.Preceding().ActionID())
}

func TestCompositeStrategy_RefusesWhenLastSubStrategyRefuses(t *testing.T) {
	t.Parallel()

	se := NewSingleExecutionStrategy(NewStrategyID("SingleExecutionStrategy"))
	pb := NewPriorityBasedStrategy(NewStrategyID("PriorityBasedStrategy"))
	composite, err := NewCompositeStrategy(se, pb)
	require.NoError(t, err)
	boundary := NewBoundaryID("x")

	seInfo := NewSingleExecutionInfo("a", se.StrategyID(), SingleExecutionNone)
	pbInfo := NewPriorityBasedInfo("a", pb.StrategyID(), Priority{Rank: PriorityHigh, Behavior: PriorityExclusive}, false)
	combined := NewCompositeInfo("a", composite.StrategyID(), []LockInfo{seInfo, pbInfo})
	composite.Acquire(boundary, combined)

	seInfo2 := NewSingleExecutionInfo("b", se.StrategyID(), SingleExecutionNone)
	pbInfo2 := NewPriorityBasedInfo("b", pb.StrategyID(), Priority{Rank: PriorityLow, Behavior: PriorityReplaceable}, false)
	combined2 := NewCompositeInfo("b", composite.StrategyID(), []LockInfo{seInfo2, pbInfo2})

	v := composite.CanAcquire(boundary, combined2)
	require.Equal(t, Refuse, v.Kind())
}

func TestCompositeInfo_IsCancellationTargetIsOrOfSubInfos(t *testing.T) {
	t.Parallel()

	se := NewSingleExecutionStrategy(NewStrategyID("SingleExecutionStrategy"))
	pb := NewPriorityBasedStrategy(NewStrategyID("PriorityBasedStrategy"))
	composite, err := NewCompositeStrategy(se, pb)
	require.NoError(t, err)

	// Neither sub-info is a cancellation target.
	seInfo := NewSingleExecutionInfo("a", se.StrategyID(), SingleExecutionBoundary)
	pbInfo := NewPriorityBasedInfo("a", pb.StrategyID(), Priority{Rank: PriorityLow, Behavior: PriorityReplaceable}, false)
	require.False(t, NewCompositeInfo("a", composite.StrategyID(), []LockInfo{seInfo, pbInfo}).IsCancellationTarget())

	// Exactly one sub-info is a cancellation target: the composite must
	// report true even though its own baseInfo flag was never set directly.
	pbInfoTarget := NewPriorityBasedInfo("a", pb.StrategyID(), Priority{Rank: PriorityLow, Behavior: PriorityReplaceable}, false, WithCancellationTarget(true))
	require.True(t, NewCompositeInfo("a", composite.StrategyID(), []LockInfo{seInfo, pbInfoTarget}).IsCancellationTarget())
}

func TestCompositeStrategy_ReleaseEmptiesEverySubStrategy(t *testing.T) {
	t.Parallel()

	se := NewSingleExecutionStrategy(NewStrategyID("SingleExecutionStrategy"))
	pb := NewPriorityBasedStrategy(NewStrategyID("PriorityBasedStrategy"))
	composite, err := NewCompositeStrategy(se, pb)
	require.NoError(t, err)
	boundary := NewBoundaryID("x")

	seInfo := NewSingleExecutionInfo("a", se.StrategyID(), SingleExecutionBoundary)
	pbInfo := NewPriorityBasedInfo("a", pb.StrategyID(), Priority{Rank: PriorityLow, Behavior: PriorityReplaceable}, false)
	combined := NewCompositeInfo("a", composite.StrategyID(), []LockInfo{seInfo, pbInfo})
	composite.Acquire(boundary, combined)

	composite.Release(boundary, combined)
	require.Empty(t, se.CurrentLocks()[boundary])
	require.Empty(t, pb.CurrentLocks()[boundary])
}
