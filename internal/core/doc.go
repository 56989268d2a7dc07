// Package core holds the mutex-guarded bookkeeping shared by every built-in
// strategy: an ordered, per-boundary collection of active lock entries with
// an action-id secondary index for O(1) contains/count/currents queries.
//
// This package has no knowledge of LockInfo, Strategy, or Verdict — it
// operates on the minimal Entry contract so that the strategy package can
// depend on it without the public package depending back on strategy
// internals.
package core
