package lockman

import (
	"context"
	"sync"
)

// Container is a process-wide, thread-safe map from StrategyID to the
// Strategy registered under it (spec.md §4.8). Resolves take a read lock;
// registrations take a write lock, matching the reader-writer split spec.md
// §5 mandates.
type Container struct {
	mu    sync.RWMutex
	byID  map[StrategyID]Strategy
}

// NewContainer returns an empty Container.
func NewContainer() *Container {
	return &Container{byID: make(map[StrategyID]Strategy)}
}

// Register installs strategy under its own StrategyID. Fails with
// ErrStrategyAlreadyRegistered if the id is already occupied.
func (c *Container) Register(strategy Strategy) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := strategy.StrategyID()
	if _, exists := c.byID[id]; exists {
		return newStrategyAlreadyRegisteredError(id)
	}
	c.byID[id] = strategy
	return nil
}

// RegisterAll installs every strategy in strategies, or none: it first
// validates that every id is unique within the batch and unoccupied in the
// container, then installs all of them. A conflict fails the whole call
// with an error naming the first offender, leaving the container unchanged
// (spec.md §4.8, §8 property 8).
func (c *Container) RegisterAll(strategies ...Strategy) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[StrategyID]bool, len(strategies))
	for _, s := range strategies {
		id := s.StrategyID()
		if seen[id] {
			return newStrategyAlreadyRegisteredError(id)
		}
		seen[id] = true
		if _, exists := c.byID[id]; exists {
			return newStrategyAlreadyRegisteredError(id)
		}
	}

	for _, s := range strategies {
		c.byID[s.StrategyID()] = s
	}
	return nil
}

// Resolve returns the strategy registered under id. Fails with
// ErrStrategyNotRegistered if absent.
func (c *Container) Resolve(id StrategyID) (Strategy, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.byID[id]
	if !ok {
		return nil, newStrategyNotRegisteredError(id)
	}
	return s, nil
}

// ResolveAs resolves id and type-asserts the result to T, returning
// ErrStrategyTypeMismatch if the registered entry is not a T. Callers that
// need a concrete strategy type (e.g. to call a method beyond the Strategy
// interface) use this instead of Resolve.
func ResolveAs[T Strategy](c *Container, id StrategyID) (T, error) {
	var zero T
	s, err := c.Resolve(id)
	if err != nil {
		return zero, err
	}
	typed, ok := s.(T)
	if !ok {
		return zero, newStrategyTypeMismatchError(id)
	}
	return typed, nil
}

// IsRegistered reports whether id has a registered strategy.
func (c *Container) IsRegistered(id StrategyID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.byID[id]
	return ok
}

// ClearAll forwards ClearAll to every registered strategy.
func (c *Container) ClearAll() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.byID {
		s.ClearAll()
	}
}

// Clear forwards Clear(boundary) to every registered strategy.
func (c *Container) Clear(boundary BoundaryID) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.byID {
		s.Clear(boundary)
	}
}

// defaultContainer is the process-wide singleton, pre-populated with the
// five built-in strategies under their conventional names.
var defaultContainer = newDefaultContainer()

func newDefaultContainer() *Container {
	c := NewContainer()
	_ = c.RegisterAll(
		NewSingleExecutionStrategy(NewStrategyID("SingleExecutionStrategy")),
		NewPriorityBasedStrategy(NewStrategyID("PriorityBasedStrategy")),
		NewConcurrencyLimitedStrategy(NewStrategyID("ConcurrencyLimitedStrategy")),
		NewGroupCoordinationStrategy(NewStrategyID("GroupCoordinationStrategy")),
		NewDynamicConditionStrategy(NewStrategyID("DynamicConditionStrategy")),
	)
	return c
}

// DefaultContainer returns the process-wide container, pre-populated with
// the five built-in strategies. Tests that need isolation should construct
// their own Container and install it for the duration of a scope via
// WithContainer rather than mutating this singleton.
func DefaultContainer() *Container { return defaultContainer }

type containerContextKey struct{}

// WithContainer returns a context carrying container as the scoped
// override consulted by ContainerFromContext and the facade (spec.md §4.8:
// "a scoped override may install a different container for the duration of
// a nested call"). Go has no ambient thread-local storage, so the override
// is modeled the idiomatic way: explicit propagation through
// context.Context, visible to everything structurally downstream of ctx
// and automatically undone when the caller stops passing ctx onward —
// there is no separate "restore" step to forget.
func WithContainer(ctx context.Context, container *Container) context.Context {
	return context.WithValue(ctx, containerContextKey{}, container)
}

// ContainerFromContext returns the container installed by the nearest
// enclosing WithContainer call, or DefaultContainer() if ctx carries none.
func ContainerFromContext(ctx context.Context) *Container {
	if c, ok := ctx.Value(containerContextKey{}).(*Container); ok {
		return c
	}
	return DefaultContainer()
}
