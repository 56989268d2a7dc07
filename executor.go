package lockman

import "time"

// Executor is the scheduling capability UnlockToken relies on for deferred
// release options (spec.md §9 re-architecture note: "the core does not own
// a runtime; it requires only a schedule(duration, closure) capability").
// Implementations must eventually run fn exactly once; Schedule itself must
// not block.
type Executor interface {
	// Schedule runs fn after d elapses (d == 0 meaning "as soon as
	// possible", not necessarily synchronously).
	Schedule(d time.Duration, fn func())
}

// timerExecutor is the default Executor: every Schedule call starts its own
// time.AfterFunc timer. Adequate for a library with no owned runtime; hosts
// embedding lockman in an actor system, a UI-serial queue, or a worker pool
// are expected to supply their own Executor (e.g. to honor a "main thread"
// affinity spec.md §4.9's main_thread option assumes).
type timerExecutor struct{}

func (timerExecutor) Schedule(d time.Duration, fn func()) {
	if d <= 0 {
		go fn()
		return
	}
	time.AfterFunc(d, fn)
}

// DefaultExecutor is the Executor the facade hands to every UnlockToken it
// creates; Config has no executor setting.
var DefaultExecutor Executor = timerExecutor{}
