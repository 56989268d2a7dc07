package core

import "sync"

// Entry is the minimal contract a per-attempt lock record must satisfy for
// BoundaryState bookkeeping. Concrete LockInfo implementations in the public
// package satisfy this structurally — no explicit conversion is needed.
type Entry interface {
	EntryActionID() string
	EntryUniqueID() string
}

// BoundaryState is the ordered, per-boundary collection of currently active
// entries for a single (strategy instance, boundary) pair. It keeps an
// insertion-ordered slice alongside a secondary index keyed by action id so
// that Contains, Count, and Currents are O(1) in the number of distinct
// action ids rather than O(n) in the number of active entries.
//
// A BoundaryState is safe for concurrent use. Every exported method takes
// the internal mutex, so the ordered slice and the action-id index are
// always observed in lockstep (spec invariant: every entry in the sequence
// is reachable through the action-id index, and vice versa).
type BoundaryState struct {
	mu      sync.Mutex
	order   []Entry
	byID    map[string][]Entry // action id -> entries sharing that id, insertion order
}

// NewBoundaryState returns an empty BoundaryState.
func NewBoundaryState() *BoundaryState {
	return &BoundaryState{byID: make(map[string][]Entry)}
}

// Append adds e to the end of the ordered sequence. The caller is
// responsible for having verified admission first (BoundaryState itself
// never decides whether an entry may be appended).
func (s *BoundaryState) Append(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order, e)
	s.byID[e.EntryActionID()] = append(s.byID[e.EntryActionID()], e)
}

// Remove deletes the entry whose unique id matches uniqueID and reports
// whether it found one to delete. It is a no-op if no such entry exists
// (idempotent release). Removal preserves the relative order of the
// remaining entries.
//
// Callers whose release path has side effects beyond the registry itself
// (e.g. releasing a semaphore unit) must gate that side effect on the
// returned bool, or a second release of the same unique id will repeat the
// side effect even though Remove itself did nothing the second time.
func (s *BoundaryState) Remove(uniqueID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(uniqueID)
}

func (s *BoundaryState) removeLocked(uniqueID string) bool {
	idx := -1
	for i, e := range s.order {
		if e.EntryUniqueID() == uniqueID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	actionID := s.order[idx].EntryActionID()
	s.order = append(s.order[:idx], s.order[idx+1:]...)

	bucket := s.byID[actionID]
	for i, e := range bucket {
		if e.EntryUniqueID() == uniqueID {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(s.byID, actionID)
	} else {
		s.byID[actionID] = bucket
	}
	return true
}

// Clear empties the sequence and the index.
func (s *BoundaryState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.byID = make(map[string][]Entry)
}

// Len returns the number of active entries.
func (s *BoundaryState) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Contains reports whether any active entry carries actionID.
func (s *BoundaryState) Contains(actionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID[actionID]) > 0
}

// Count returns the number of active entries carrying actionID.
func (s *BoundaryState) Count(actionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID[actionID])
}

// Currents returns the active entries carrying actionID, in insertion
// order. The returned slice is a copy; callers may not mutate BoundaryState
// through it.
func (s *BoundaryState) Currents(actionID string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.byID[actionID]
	out := make([]Entry, len(bucket))
	copy(out, bucket)
	return out
}

// Snapshot returns a copy of the full ordered sequence, oldest first.
func (s *BoundaryState) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.order))
	copy(out, s.order)
	return out
}

// First returns the oldest active entry and true, or (nil, false) if empty.
func (s *BoundaryState) First() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) == 0 {
		return nil, false
	}
	return s.order[0], true
}

// Registry manages one BoundaryState per boundary key for a single
// strategy instance. It mirrors the teacher's pattern of a mutex-guarded
// map of per-resource state (Pool.mu guarding Pool.free/Pool.all), widened
// to a map so that operations on distinct boundaries never contend.
//
// Registry is generic over the boundary key type so that this package
// never needs to import the public package's BoundaryID type (which would
// create an import cycle, since the public package's strategies import
// core). Any comparable key works; the public package instantiates
// Registry[BoundaryID], relying on the fact that every BoundaryID the
// public package constructs boxes a comparable value and is therefore
// itself safe to use as a map key.
type Registry[K comparable] struct {
	mu    sync.RWMutex
	byKey map[K]*BoundaryState
}

// NewRegistry returns an empty Registry.
func NewRegistry[K comparable]() *Registry[K] {
	return &Registry[K]{byKey: make(map[K]*BoundaryState)}
}

// StateFor returns the BoundaryState for key, creating an empty one if
// absent. A boundary with an empty sequence may be present or absent in
// the registry; lookups treat both identically, so eager creation here is
// purely an implementation convenience and never observable.
func (r *Registry[K]) StateFor(key K) *BoundaryState {
	r.mu.RLock()
	s, ok := r.byKey[key]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byKey[key]; ok {
		return s
	}
	s = NewBoundaryState()
	r.byKey[key] = s
	return s
}

// ClearAll empties every boundary's state.
func (r *Registry[K]) ClearAll() {
	r.mu.Lock()
	states := make([]*BoundaryState, 0, len(r.byKey))
	for _, s := range r.byKey {
		states = append(states, s)
	}
	r.mu.Unlock()
	for _, s := range states {
		s.Clear()
	}
}

// Clear empties the state for a single boundary key.
func (r *Registry[K]) Clear(key K) {
	r.mu.RLock()
	s, ok := r.byKey[key]
	r.mu.RUnlock()
	if ok {
		s.Clear()
	}
}

// Snapshot returns a copy of every boundary key's current entries, keyed by
// the same boundary key passed to StateFor/Clear.
func (r *Registry[K]) Snapshot() map[K][]Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[K][]Entry, len(r.byKey))
	for k, s := range r.byKey {
		if entries := s.Snapshot(); len(entries) > 0 {
			out[k] = entries
		}
	}
	return out
}
