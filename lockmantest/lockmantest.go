// Package lockmantest provides fixtures for testing code built on lockman:
// a synchronous Executor for deterministic release timing, a scoped
// container builder, and an invariant check over a strategy's CurrentLocks
// view.
package lockmantest

import (
	"context"
	"time"

	"github.com/lockman-go/lockman"
)

// SyncExecutor runs every scheduled function synchronously, on the calling
// goroutine, regardless of the requested delay. Tests that assert on the
// effect of a released lock use this instead of the default timer-based
// Executor so release is observable immediately, with no sleep or polling.
type SyncExecutor struct{}

func (SyncExecutor) Schedule(_ time.Duration, fn func()) { fn() }

// NewScopedContainer builds a fresh, empty Container, registers strategies
// into it, and returns a context carrying it as the scoped override
// (spec.md §4.8's "scoped override ... used by tests"). Each test gets
// isolated strategy state without touching the process-wide default
// container.
func NewScopedContainer(ctx context.Context, strategies ...lockman.Strategy) (context.Context, *lockman.Container) {
	c := lockman.NewContainer()
	for _, s := range strategies {
		_ = c.Register(s)
	}
	return lockman.WithContainer(ctx, c), c
}

// NewScopedDefaultContainer is NewScopedContainer pre-populated with fresh
// instances of all five built-in strategies, for tests that want the usual
// strategy set without sharing the process-wide singleton's state across
// test cases run in parallel.
func NewScopedDefaultContainer(ctx context.Context) (context.Context, *lockman.Container) {
	return NewScopedContainer(ctx,
		lockman.NewSingleExecutionStrategy(lockman.NewStrategyID("SingleExecutionStrategy")),
		lockman.NewPriorityBasedStrategy(lockman.NewStrategyID("PriorityBasedStrategy")),
		lockman.NewConcurrencyLimitedStrategy(lockman.NewStrategyID("ConcurrencyLimitedStrategy")),
		lockman.NewGroupCoordinationStrategy(lockman.NewStrategyID("GroupCoordinationStrategy")),
		lockman.NewDynamicConditionStrategy(lockman.NewStrategyID("DynamicConditionStrategy")),
	)
}

// IndexConsistent reports whether no unique id appears more than once in
// strategy's CurrentLocks view restricted to boundary. It sees only the
// ordered sequence CurrentLocks exposes; the action-id index inside
// internal/core is not consulted.
func IndexConsistent(strategy lockman.Strategy, boundary lockman.BoundaryID) bool {
	locks := strategy.CurrentLocks()[boundary]
	seen := make(map[lockman.UniqueID]bool, len(locks))
	for _, info := range locks {
		if seen[info.UniqueID()] {
			return false // duplicate unique id: index/sequence would disagree
		}
		seen[info.UniqueID()] = true
	}
	return true
}
