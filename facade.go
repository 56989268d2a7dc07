package lockman

import "context"

// Action is the host-supplied declaration the facade needs to attempt an
// acquisition: the strategy it arbitrates through, and how to construct
// this attempt's LockInfo (spec.md §6: "Declaring an Action type that
// carries action_id, desired strategy id, and a constructor for its
// strategy-specific info").
type Action interface {
	// StrategyID names the strategy this action is arbitrated by. The
	// facade resolves it from the container in scope.
	StrategyID() StrategyID

	// CreateInfo builds this attempt's LockInfo. Called once per Lock call;
	// implementations typically mint a fresh UniqueID here (indirectly, via
	// one of the New*Info constructors).
	CreateInfo() LockInfo
}

// DefaultReleaseOption is implemented by an Action that wants to override
// Config.DefaultUnlockOption without every call site having to specify one
// (spec.md §4.10 step 5). Actions that don't need this need not implement
// it; the facade only type-asserts for it.
type DefaultReleaseOption interface {
	DefaultUnlockOption() ReleaseOption
}

// Lock is the facade's entry point (spec.md §4.10): it builds action's
// info, resolves its strategy from the container reachable through ctx,
// asks the strategy whether it may start, and on admission acquires it and
// attaches an UnlockToken. unlockOption, if non-nil, overrides any
// Action-level or Config-level default for this call only.
func Lock(ctx context.Context, boundary BoundaryID, action Action, unlockOption ...ReleaseOption) Verdict {
	info := action.CreateInfo()
	strategyID := action.StrategyID()

	container := ContainerFromContext(ctx)
	strategy, err := container.Resolve(strategyID)
	if err != nil {
		cfg := GetConfig()
		if cfg.IssueReporter != nil {
			cfg.IssueReporter.ReportIssue("strategy-not-registered", err)
		}
		refusal := newStrategyError("strategy-not-registered", err.Error(), info, boundary)
		refusal.cause = err
		return refuseVerdict(refusal)
	}

	verdict := strategy.CanAcquire(boundary, info)
	if verdict.Kind() == Refuse {
		return verdict
	}

	strategy.Acquire(boundary, info)

	option := effectiveReleaseOption(action, unlockOption)
	token := newUnlockToken(boundary, info, strategy, option, DefaultExecutor)

	return verdict.withToken(token)
}

func effectiveReleaseOption(action Action, callSite []ReleaseOption) ReleaseOption {
	if len(callSite) > 0 {
		return callSite[0]
	}
	if withDefault, ok := action.(DefaultReleaseOption); ok {
		return withDefault.DefaultUnlockOption()
	}
	return GetConfig().DefaultUnlockOption
}
