package lockman

// VerdictKind enumerates the three possible arbitration outcomes (spec.md
// §7): admit, admit-with-preemption, refuse.
type VerdictKind int

const (
	// Admit means the action may start; no existing lock is displaced.
	Admit VerdictKind = iota
	// AdmitWithPreemption means the action may start, but an existing lock
	// is displaced — the caller should cancel the work identified by
	// Preceding before proceeding.
	AdmitWithPreemption
	// Refuse means the action may not start.
	Refuse
)

func (k VerdictKind) String() string {
	switch k {
	case Admit:
		return "admit"
	case AdmitWithPreemption:
		return "admit-with-preemption"
	case Refuse:
		return "refuse"
	default:
		return "unknown"
	}
}

// Verdict is the result of a strategy's CanAcquire call (and, via the
// facade, of Lock). It is a plain value, never an exception: strategies
// never panic to signal refusal (spec.md §7).
type Verdict struct {
	kind      VerdictKind
	cause     LockmanError
	preceding LockInfo
	token     *UnlockToken
}

// Kind reports which of the three outcomes this verdict represents.
func (v Verdict) Kind() VerdictKind { return v.kind }

// IsAdmitted reports whether the action may proceed — true for both Admit
// and AdmitWithPreemption.
func (v Verdict) IsAdmitted() bool { return v.kind == Admit || v.kind == AdmitWithPreemption }

// Cause returns the refusal or preceding-cancellation error. Present for
// Refuse and AdmitWithPreemption, nil for Admit.
func (v Verdict) Cause() LockmanError { return v.cause }

// Preceding returns the LockInfo displaced by an AdmitWithPreemption
// verdict. Present only for AdmitWithPreemption.
func (v Verdict) Preceding() LockInfo { return v.preceding }

// Token returns the UnlockToken the facade attached on an admitted
// verdict. Present for Admit and AdmitWithPreemption when the verdict came
// from Lock; nil for verdicts returned directly by a Strategy (which never
// know about tokens) and for Refuse.
func (v Verdict) Token() *UnlockToken { return v.token }

// withToken returns a copy of v with token attached, used by the facade to
// enrich a strategy's bare admit verdict.
func (v Verdict) withToken(token *UnlockToken) Verdict {
	v.token = token
	return v
}

func admitVerdict() Verdict {
	return Verdict{kind: Admit}
}

func admitWithPreemptionVerdict(err *precedingCancellationError) Verdict {
	return Verdict{kind: AdmitWithPreemption, cause: err, preceding: err.Preceding()}
}

func refuseVerdict(err LockmanError) Verdict {
	return Verdict{kind: Refuse, cause: err}
}
