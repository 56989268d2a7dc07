package lockman

import "sync/atomic"

// IssueReporter receives warnings the core wants surfaced but that do not
// by themselves fail an operation already in progress — e.g. a
// strategy-not-registered condition the facade is about to turn into a
// refuse verdict anyway (spec.md §6, §7).
type IssueReporter interface {
	ReportIssue(kind string, err error)
}

// loggingIssueReporter is the default IssueReporter: it logs at warn level
// through the package logger. Hosts that want issues routed to their own
// telemetry install a different IssueReporter via SetConfig.
type loggingIssueReporter struct{}

func (loggingIssueReporter) ReportIssue(kind string, err error) {
	Logger().Sugar().Warnw("lockman issue", "kind", kind, "error", err)
}

// Config holds the process-wide, runtime-mutable switches spec.md §6
// specifies. A Config value is immutable once published; SetConfig installs
// a new one atomically, so readers never observe a partially-updated set
// of switches.
type Config struct {
	// DefaultUnlockOption is used by the facade when neither the call site
	// nor the action specifies a ReleaseOption.
	DefaultUnlockOption ReleaseOption

	// HandleCancellationErrors controls whether an admit-with-preemption
	// verdict also causes the host runtime to cancel the preempted work
	// automatically, versus leaving that entirely to the caller.
	HandleCancellationErrors bool

	// IssueReporter receives registration and other non-fatal warnings.
	IssueReporter IssueReporter

	// DebugLoggingEnabled is the switch for verbose tracing. It is stored
	// and published with the rest of the Config, but no code in this
	// package reads it: setting it does not enable any logging by itself.
	DebugLoggingEnabled bool
}

func defaultConfig() *Config {
	return &Config{
		DefaultUnlockOption:      ImmediateRelease(),
		HandleCancellationErrors: false,
		IssueReporter:            loggingIssueReporter{},
		DebugLoggingEnabled:      false,
	}
}

var globalConfig atomic.Pointer[Config]

func init() {
	globalConfig.Store(defaultConfig())
}

// GetConfig returns the current process-wide Config. The returned value is
// a snapshot: mutating its fields has no effect, call SetConfig instead.
func GetConfig() Config {
	return *globalConfig.Load()
}

// ConfigOption mutates a Config being built by SetConfig. Mirrors the
// functional-options shape InfoOption uses for LockInfo construction.
type ConfigOption func(*Config)

func WithDefaultUnlockOption(opt ReleaseOption) ConfigOption {
	return func(c *Config) { c.DefaultUnlockOption = opt }
}

func WithHandleCancellationErrors(handle bool) ConfigOption {
	return func(c *Config) { c.HandleCancellationErrors = handle }
}

func WithIssueReporter(reporter IssueReporter) ConfigOption {
	return func(c *Config) { c.IssueReporter = reporter }
}

func WithDebugLoggingEnabled(enabled bool) ConfigOption {
	return func(c *Config) { c.DebugLoggingEnabled = enabled }
}

// SetConfig applies opts on top of the current Config and publishes the
// result atomically: readers see either the complete prior Config or the
// complete new one, never a mix.
func SetConfig(opts ...ConfigOption) {
	next := GetConfig()
	for _, opt := range opts {
		opt(&next)
	}
	globalConfig.Store(&next)
}

// ResetConfig restores every switch to its default, atomically.
func ResetConfig() {
	globalConfig.Store(defaultConfig())
}
