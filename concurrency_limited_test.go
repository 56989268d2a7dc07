package lockman

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConcurrencyLimitedStrategy_AdmitsUpToLimit(t *testing.T) {
	t.Parallel()

	s := NewConcurrencyLimitedStrategy(NewStrategyID("concurrency-1"))
	boundary := NewBoundaryID("x")

	a := NewConcurrencyLimitedInfo("a", s.StrategyID(), "G", LimitedConcurrency(2))
	require.True(t, s.CanAcquire(boundary, a).IsAdmitted())
	s.Acquire(boundary, a)

	b := NewConcurrencyLimitedInfo("b", s.StrategyID(), "G", LimitedConcurrency(2))
	require.True(t, s.CanAcquire(boundary, b).IsAdmitted())
	s.Acquire(boundary, b)

	c := NewConcurrencyLimitedInfo("c", s.StrategyID(), "G", LimitedConcurrency(2))
	require.Equal(t, Refuse, s.CanAcquire(boundary, c).Kind())

	// A different group with its own limit is unaffected (spec.md §8 scenario 5).
	d := NewConcurrencyLimitedInfo("d", s.StrategyID(), "G2", LimitedConcurrency(1))
	require.True(t, s.CanAcquire(boundary, d).IsAdmitted())
}

func TestConcurrencyLimitedStrategy_Unlimited(t *testing.T) {
	t.Parallel()

	s := NewConcurrencyLimitedStrategy(NewStrategyID("concurrency-2"))
	boundary := NewBoundaryID("x")

	for i := 0; i < 50; i++ {
		info := NewConcurrencyLimitedInfo(ActionID(string(rune('a'+i%26))), s.StrategyID(), "G", UnlimitedConcurrency())
		require.True(t, s.CanAcquire(boundary, info).IsAdmitted())
		s.Acquire(boundary, info)
	}
}

func TestConcurrencyLimitedStrategy_ReleaseFreesASlot(t *testing.T) {
	t.Parallel()

	s := NewConcurrencyLimitedStrategy(NewStrategyID("concurrency-3"))
	boundary := NewBoundaryID("x")

	a := NewConcurrencyLimitedInfo("a", s.StrategyID(), "G", LimitedConcurrency(1))
	s.Acquire(boundary, a)

	b := NewConcurrencyLimitedInfo("b", s.StrategyID(), "G", LimitedConcurrency(1))
	require.Equal(t, Refuse, s.CanAcquire(boundary, b).Kind())

	s.Release(boundary, a)
	require.True(t, s.CanAcquire(boundary, b).IsAdmitted())
}

func TestConcurrencyLimitedStrategy_ReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewConcurrencyLimitedStrategy(NewStrategyID("concurrency-5"))
	boundary := NewBoundaryID("x")

	a := NewConcurrencyLimitedInfo("a", s.StrategyID(), "G", LimitedConcurrency(1))
	s.Acquire(boundary, a)

	require.NotPanics(t, func() {
		s.Release(boundary, a)
		s.Release(boundary, a) // releasing the same unique id twice must be a no-op, not a panic
	})

	// The freed slot is usable: a second release did not over-release the
	// semaphore and leave the group permanently at capacity.
	b := NewConcurrencyLimitedInfo("b", s.StrategyID(), "G", LimitedConcurrency(1))
	require.True(t, s.CanAcquire(boundary, b).IsAdmitted())
}

func TestConcurrencyLimitedStrategy_PerBoundaryCounters(t *testing.T) {
	t.Parallel()

	s := NewConcurrencyLimitedStrategy(NewStrategyID("concurrency-4"))
	x := NewBoundaryID("x")
	y := NewBoundaryID("y")

	a := NewConcurrencyLimitedInfo("a", s.StrategyID(), "G", LimitedConcurrency(1))
	s.Acquire(x, a)

	// Same group, different boundary: counters are kept per-boundary
	// (spec.md §4.4: "the reference design keeps the counter per-boundary").
	b := NewConcurrencyLimitedInfo("b", s.StrategyID(), "G", LimitedConcurrency(1))
	require.True(t, s.CanAcquire(y, b).IsAdmitted())
}
