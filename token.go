package lockman

import (
	"runtime"
	"sync/atomic"
	"time"
)

// transitionReleaseDelay is the default short delay TransitionRelease waits
// before actually releasing, giving a caller's UI animation time to settle
// (spec.md §4.9). It is a fixed constant: no option or Config setting
// changes it.
const transitionReleaseDelay = 350 * time.Millisecond

// releaseOptionKind enumerates the four release timing variants spec.md
// §4.9 specifies.
type releaseOptionKind int

const (
	releaseImmediate releaseOptionKind = iota
	releaseMainThread
	releaseTransition
	releaseDelayed
)

// ReleaseOption controls when an UnlockToken's release actually reaches the
// underlying strategy once invoked (spec.md §4.9). The core does not own a
// runtime: main_thread, transition, and delayed(d) are all expressed as one
// call to an Executor with an appropriate duration, rather than as three
// distinct scheduling mechanisms.
type ReleaseOption struct {
	kind  releaseOptionKind
	delay time.Duration
}

// ImmediateRelease releases synchronously when the token is invoked.
func ImmediateRelease() ReleaseOption { return ReleaseOption{kind: releaseImmediate} }

// MainThreadRelease posts the release to the token's Executor with no
// additional delay.
func MainThreadRelease() ReleaseOption { return ReleaseOption{kind: releaseMainThread} }

// TransitionRelease posts the release to the token's Executor, deferred by
// transitionReleaseDelay.
func TransitionRelease() ReleaseOption {
	return ReleaseOption{kind: releaseTransition, delay: transitionReleaseDelay}
}

// DelayedRelease posts the release to the token's Executor, deferred by d.
func DelayedRelease(d time.Duration) ReleaseOption {
	return ReleaseOption{kind: releaseDelayed, delay: d}
}

func (o ReleaseOption) String() string {
	switch o.kind {
	case releaseImmediate:
		return "immediate"
	case releaseMainThread:
		return "main_thread"
	case releaseTransition:
		return "transition"
	case releaseDelayed:
		return "delayed(" + o.delay.String() + ")"
	default:
		return "unknown"
	}
}

// UnlockToken is the scoped release handle the facade returns on a
// successful Lock: (boundary, info, resolved strategy, release option)
// (spec.md §4.9). Invoking it releases exactly once; further invocations
// are no-ops, and releasing an already-released token is never an error.
type UnlockToken struct {
	boundary BoundaryID
	info     LockInfo
	strategy Strategy
	option   ReleaseOption
	executor Executor

	fired *atomic.Bool
}

func newUnlockToken(boundary BoundaryID, info LockInfo, strategy Strategy, option ReleaseOption, executor Executor) *UnlockToken {
	if executor == nil {
		executor = DefaultExecutor
	}
	return &UnlockToken{boundary: boundary, info: info, strategy: strategy, option: option, executor: executor, fired: new(atomic.Bool)}
}

// Release invokes the token. The first call schedules (or performs) the
// underlying strategy.Release according to the token's ReleaseOption;
// subsequent calls are no-ops.
func (t *UnlockToken) Release() {
	if !t.fired.CompareAndSwap(false, true) {
		return
	}
	t.scheduleRelease()
}

func (t *UnlockToken) scheduleRelease() {
	do := func() { t.strategy.Release(t.boundary, t.info) }
	switch t.option.kind {
	case releaseImmediate:
		do()
	case releaseMainThread:
		t.executor.Schedule(0, do)
	case releaseTransition, releaseDelayed:
		t.executor.Schedule(t.option.delay, do)
	default:
		do()
	}
}

// Boundary returns the boundary this token releases within.
func (t *UnlockToken) Boundary() BoundaryID { return t.boundary }

// Info returns the LockInfo this token releases.
func (t *UnlockToken) Info() LockInfo { return t.info }

// autoReleaseArgs carries only what the cleanup callback needs, never the
// UnlockToken itself: runtime.AddCleanup requires the cleanup argument not
// keep the watched pointer reachable, or the token would never become
// eligible for collection and the cleanup would never run.
type autoReleaseArgs struct {
	boundary BoundaryID
	info     LockInfo
	strategy Strategy
	fired    *atomic.Bool
}

// NewAutoReleaseToken wraps token so that, in addition to explicit Release
// calls, the underlying lock is released on garbage collection if the
// returned guard is ever dropped without an explicit Release (spec.md §4.9:
// "an auto-token variant releases on drop ... in addition to explicit
// invocation"). Go has no deterministic destructors, so this is a
// best-effort GC backstop, not a substitute for calling Release: it must
// never be relied on for timely release, only as a leak backstop. The
// shared fired flag keeps an explicit Release and the GC-triggered cleanup
// mutually idempotent.
func NewAutoReleaseToken(token *UnlockToken) *UnlockToken {
	args := autoReleaseArgs{boundary: token.boundary, info: token.info, strategy: token.strategy, fired: token.fired}
	runtime.AddCleanup(token, func(a autoReleaseArgs) {
		if a.fired.CompareAndSwap(false, true) {
			a.strategy.Release(a.boundary, a.info)
		}
	}, args)
	return token
}
