package lockman

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingIssueReporter struct {
	kind string
	err  error
}

func (r *recordingIssueReporter) ReportIssue(kind string, err error) {
	r.kind, r.err = kind, err
}

func TestConfig_DefaultsAreSane(t *testing.T) {
	t.Parallel()

	ResetConfig()
	t.Cleanup(ResetConfig)

	cfg := GetConfig()
	require.Equal(t, ImmediateRelease(), cfg.DefaultUnlockOption)
	require.False(t, cfg.HandleCancellationErrors)
	require.False(t, cfg.DebugLoggingEnabled)
	require.IsType(t, loggingIssueReporter{}, cfg.IssueReporter)
}

func TestSetConfig_AppliesOnTopOfCurrent(t *testing.T) {
	t.Parallel()

	ResetConfig()
	t.Cleanup(ResetConfig)

	SetConfig(WithDebugLoggingEnabled(true))
	cfg := GetConfig()
	require.True(t, cfg.DebugLoggingEnabled)
	// Untouched fields keep their prior value, not the hardcoded default.
	require.Equal(t, ImmediateRelease(), cfg.DefaultUnlockOption)

	SetConfig(WithDefaultUnlockOption(TransitionRelease()))
	cfg = GetConfig()
	require.Equal(t, TransitionRelease(), cfg.DefaultUnlockOption)
	require.True(t, cfg.DebugLoggingEnabled, "earlier SetConfig call must not be clobbered")
}

func TestSetConfig_PublishesAtomically(t *testing.T) {
	t.Parallel()

	ResetConfig()
	t.Cleanup(ResetConfig)

	reporter := &recordingIssueReporter{}
	SetConfig(
		WithIssueReporter(reporter),
		WithHandleCancellationErrors(true),
	)

	cfg := GetConfig()
	require.Same(t, reporter, cfg.IssueReporter)
	require.True(t, cfg.HandleCancellationErrors)
}

func TestResetConfig_RestoresDefaults(t *testing.T) {
	t.Parallel()

	t.Cleanup(ResetConfig)

	SetConfig(WithDebugLoggingEnabled(true), WithHandleCancellationErrors(true))
	ResetConfig()

	cfg := GetConfig()
	require.False(t, cfg.DebugLoggingEnabled)
	require.False(t, cfg.HandleCancellationErrors)
	require.IsType(t, loggingIssueReporter{}, cfg.IssueReporter)
}

func TestGetConfig_ReturnsSnapshotNotLiveReference(t *testing.T) {
	t.Parallel()

	ResetConfig()
	t.Cleanup(ResetConfig)

	cfg := GetConfig()
	cfg.DebugLoggingEnabled = true

	require.False(t, GetConfig().DebugLoggingEnabled, "mutating a fetched Config must not affect the published one")
}

func TestLoggingIssueReporter_DoesNotPanicOnError(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() {
		loggingIssueReporter{}.ReportIssue("test", errors.New("boom"))
	})
}
