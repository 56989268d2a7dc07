// Package lockman arbitrates whether a named action may begin executing
// within a named boundary — a UI screen, a feature module, a request scope
// — and hands back a scoped release token on admission. It is not a mutex:
// Lock never blocks the caller and never schedules work; it returns one of
// three verdicts (admit, admit-with-preemption, refuse) computed against
// whatever is currently active in that boundary.
//
// # Basic usage
//
//	boundary := lockman.NewBoundaryID("checkout-screen")
//
//	action := myAction{id: "submit-order"}
//	verdict := lockman.Lock(ctx, boundary, action)
//	if !verdict.IsAdmitted() {
//	    return verdict.Cause()
//	}
//	defer verdict.Token().Release()
//
//	// ... do the work admitted above ...
//
// myAction declares which strategy arbitrates it and how to build this
// attempt's LockInfo:
//
//	type myAction struct{ id string }
//
//	func (a myAction) StrategyID() lockman.StrategyID {
//	    return lockman.NewStrategyID("SingleExecutionStrategy")
//	}
//
//	func (a myAction) CreateInfo() lockman.LockInfo {
//	    return lockman.NewSingleExecutionInfo(lockman.ActionID(a.id),
//	        a.StrategyID(), lockman.SingleExecutionBoundary)
//	}
//
// # Strategies
//
// Five built-in strategies ship pre-registered in DefaultContainer():
// SingleExecutionStrategy, PriorityBasedStrategy, ConcurrencyLimitedStrategy,
// GroupCoordinationStrategy, and DynamicConditionStrategy. CompositeStrategy
// combines 2-5 of them (built-in or custom) into one strategy evaluated
// all-or-nothing.
//
// # Scoping for tests
//
// Tests that need an isolated container install one for the duration of a
// call tree via WithContainer, rather than mutating the process-wide
// default:
//
//	ctx = lockman.WithContainer(ctx, lockman.NewContainer())
package lockman
