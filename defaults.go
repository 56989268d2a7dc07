package lockman

// DefaultTransitionDelay is the delay TransitionRelease waits before
// releasing, giving a caller's UI animation time to settle (spec.md §4.9).
// Exported so callers can reference it when building their own durations
// relative to the default (e.g. 2*DefaultTransitionDelay).
const DefaultTransitionDelay = transitionReleaseDelay
