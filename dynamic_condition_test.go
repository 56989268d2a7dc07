package lockman

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDynamicConditionStrategy_AdmitsWhenPredicateReturnsNil(t *testing.T) {
	t.Parallel()

	s := NewDynamicConditionStrategy(NewStrategyID("dynamic-1"))
	boundary := NewBoundaryID("x")

	info := NewDynamicConditionInfo("a", s.StrategyID(), func(BoundaryID, LockInfo) error { return nil })
	require.True(t, s.CanAcquire(boundary, info).IsAdmitted())
}

func TestDynamicConditionStrategy_RefusesAndPropagatesUserError(t *testing.T) {
	t.Parallel()

	s := NewDynamicConditionStrategy(NewStrategyID("dynamic-2"))
	boundary := NewBoundaryID("x")

	userErr := errors.New("quota exhausted")
	info := NewDynamicConditionInfo("a", s.StrategyID(), func(BoundaryID, LockInfo) error { return userErr })

	v := s.CanAcquire(boundary, info)
	require.Equal(t, Refuse, v.Kind())

	var dynErr *DynamicConditionError
	require.ErrorAs(t, v.Cause(), &dynErr)
	require.ErrorIs(t, dynErr, userErr)
}

func TestDynamicConditionStrategy_NilPredicateAdmits(t *testing.T) {
	t.Parallel()

	s := NewDynamicConditionStrategy(NewStrategyID("dynamic-3"))
	boundary := NewBoundaryID("x")

	info := NewDynamicConditionInfo("a", s.StrategyID(), nil)
	require.True(t, s.CanAcquire(boundary, info).IsAdmitted())
}
