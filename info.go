package lockman

// LockInfo is the per-attempt descriptor every strategy evaluates. Equality
// of LockInfo is defined entirely by UniqueID (spec.md §3): two infos
// sharing an ActionID are still distinct locks.
//
// Concrete variants (SingleExecutionInfo, PriorityBasedInfo, …) are plain
// structs implementing this interface — Go's structural interface dispatch
// replaces the "dynamic dispatch over heterogeneously typed strategies with
// an associated info type" re-architecture item from the spec's DESIGN
// NOTES outright, with no type-erasure boxing required.
type LockInfo interface {
	ActionID() ActionID
	UniqueID() UniqueID
	StrategyID() StrategyID
	IsCancellationTarget() bool
	DebugDescription() string
	DebugAdditionalInfo() map[string]any

	// EntryActionID and EntryUniqueID satisfy internal/core.Entry so every
	// LockInfo can be appended directly to a core.BoundaryState without an
	// adapter type.
	EntryActionID() string
	EntryUniqueID() string
}

// baseInfo is embedded by every concrete LockInfo variant. It supplies the
// fields and methods common to all of them (spec.md §3 "LockInfo (per
// strategy)" common contract) so variants only need to add their
// strategy-specific fields.
type baseInfo struct {
	actionID             ActionID
	uniqueID             UniqueID
	strategyID           StrategyID
	isCancellationTarget bool
	debugDescription     string
	debugAdditionalInfo  map[string]any
}

func newBaseInfo(actionID ActionID, strategyID StrategyID) baseInfo {
	return baseInfo{
		actionID:   actionID,
		uniqueID:   NewUniqueID(),
		strategyID: strategyID,
	}
}

func (b baseInfo) ActionID() ActionID    { return b.actionID }
func (b baseInfo) UniqueID() UniqueID    { return b.uniqueID }
func (b baseInfo) StrategyID() StrategyID { return b.strategyID }
func (b baseInfo) IsCancellationTarget() bool { return b.isCancellationTarget }
func (b baseInfo) DebugDescription() string {
	if b.debugDescription != "" {
		return b.debugDescription
	}
	return string(b.actionID) + "#" + string(b.uniqueID)
}
func (b baseInfo) DebugAdditionalInfo() map[string]any { return b.debugAdditionalInfo }

func (b baseInfo) EntryActionID() string { return string(b.actionID) }
func (b baseInfo) EntryUniqueID() string { return string(b.uniqueID) }

// InfoOption customizes the optional fields common to every LockInfo variant
// (cancellation-target flag, debug text, debug metadata).
type InfoOption func(*baseInfo)

// WithCancellationTarget marks the info as a cancellation target: when this
// info is displaced by a preemption, the host should treat it as eligible
// for automatic cancellation (see Config.HandleCancellationErrors).
func WithCancellationTarget(v bool) InfoOption {
	return func(b *baseInfo) { b.isCancellationTarget = v }
}

// WithDebugDescription overrides the default "action#unique" debug text.
func WithDebugDescription(s string) InfoOption {
	return func(b *baseInfo) { b.debugDescription = s }
}

// WithDebugAdditionalInfo attaches free-form debug metadata.
func WithDebugAdditionalInfo(m map[string]any) InfoOption {
	return func(b *baseInfo) { b.debugAdditionalInfo = m }
}

func applyInfoOptions(b *baseInfo, opts []InfoOption) {
	for _, opt := range opts {
		opt(b)
	}
}
