package lockman

import "github.com/lockman-go/lockman/internal/core"

// GroupRole selects whether a GroupCoordinatedInfo participates as a leader
// (subject to an EntryPolicy) or an ordinary member (spec.md §4.5).
type GroupRole int

const (
	GroupMember GroupRole = iota
	GroupLeader
)

func (r GroupRole) String() string {
	if r == GroupLeader {
		return "leader"
	}
	return "member"
}

// EntryPolicy governs when a GroupLeader may join a group that already has
// activity. Meaningless for GroupMember.
type EntryPolicy int

const (
	// EmptyGroupOnly refuses if the group has any existing lock at all.
	EmptyGroupOnly EntryPolicy = iota
	// NoLeaderPresent refuses only if the group already has a leader.
	NoLeaderPresent
	// NoMembersPresent refuses only if the group already has a member.
	NoMembersPresent
)

func (p EntryPolicy) String() string {
	switch p {
	case EmptyGroupOnly:
		return "empty-group-only"
	case NoLeaderPresent:
		return "no-leader-present"
	case NoMembersPresent:
		return "no-members-present"
	default:
		return "unknown"
	}
}

// GroupMembership pairs a GroupID with the role this info plays in it.
// Leader roles carry the EntryPolicy that governs their admission; it is
// ignored for Member roles.
type GroupMembership struct {
	GroupID GroupID
	Role    GroupRole
	Entry   EntryPolicy
}

// LeaderMembership builds a leader GroupMembership under entryPolicy.
func LeaderMembership(group GroupID, entryPolicy EntryPolicy) GroupMembership {
	return GroupMembership{GroupID: group, Role: GroupLeader, Entry: entryPolicy}
}

// MemberMembership builds a member GroupMembership.
func MemberMembership(group GroupID) GroupMembership {
	return GroupMembership{GroupID: group, Role: GroupMember}
}

// GroupCoordinatedInfo is the LockInfo variant for GroupCoordinationStrategy
// (spec.md §4.5). An info may belong to more than one group simultaneously,
// playing a possibly different role in each.
type GroupCoordinatedInfo struct {
	baseInfo
	memberships []GroupMembership
}

func (i GroupCoordinatedInfo) Memberships() []GroupMembership {
	out := make([]GroupMembership, len(i.memberships))
	copy(out, i.memberships)
	return out
}

// NewGroupCoordinatedInfo builds a GroupCoordinatedInfo participating in
// every given membership.
func NewGroupCoordinatedInfo(actionID ActionID, strategyID StrategyID, memberships []GroupMembership, opts ...InfoOption) GroupCoordinatedInfo {
	b := newBaseInfo(actionID, strategyID)
	applyInfoOptions(&b, opts)
	ms := make([]GroupMembership, len(memberships))
	copy(ms, memberships)
	return GroupCoordinatedInfo{baseInfo: b, memberships: ms}
}

// GroupCoordinationStrategy admits leaders and members into shared groups
// according to each membership's rule (spec.md §4.5). Groups are not given
// a dedicated table: membership is recovered by scanning the boundary's
// ordered sequence and filtering by GroupID, exactly as the spec directs.
type GroupCoordinationStrategy struct {
	id       StrategyID
	registry *core.Registry[BoundaryID]
}

func NewGroupCoordinationStrategy(id StrategyID) *GroupCoordinationStrategy {
	return &GroupCoordinationStrategy{id: id, registry: core.NewRegistry[BoundaryID]()}
}

func (s *GroupCoordinationStrategy) StrategyID() StrategyID { return s.id }

// membersOf returns every active GroupCoordinatedInfo that has a membership
// in group, split into leaders and members, in insertion order.
func membersOf(state *core.BoundaryState, group GroupID) (leaders, members []GroupCoordinatedInfo) {
	for _, e := range state.Snapshot() {
		gc, ok := e.(GroupCoordinatedInfo)
		if !ok {
			continue
		}
		for _, m := range gc.memberships {
			if m.GroupID != group {
				continue
			}
			if m.Role == GroupLeader {
				leaders = append(leaders, gc)
			} else {
				members = append(members, gc)
			}
		}
	}
	return leaders, members
}

func (s *GroupCoordinationStrategy) CanAcquire(boundary BoundaryID, info LockInfo) Verdict {
	gc, ok := info.(GroupCoordinatedInfo)
	if !ok {
		return refuseVerdict(newStrategyError("invalid-info-type", "expected GroupCoordinatedInfo", info, boundary))
	}

	state := s.registry.StateFor(boundary)

	for _, m := range gc.memberships {
		leaders, members := membersOf(state, m.GroupID)

		switch m.Role {
		case GroupLeader:
			switch m.Entry {
			case EmptyGroupOnly:
				if len(leaders)+len(members) > 0 {
					return refuseVerdict(newStrategyError("group-not-empty",
						"group "+string(m.GroupID)+" already has activity", info, boundary))
				}
			case NoLeaderPresent:
				if len(leaders) > 0 {
					return refuseVerdict(newStrategyError("group-leader-present",
						"group "+string(m.GroupID)+" already has a leader", info, boundary))
				}
			case NoMembersPresent:
				if len(members) > 0 {
					return refuseVerdict(newStrategyError("group-members-present",
						"group "+string(m.GroupID)+" already has members", info, boundary))
				}
			}

		case GroupMember:
			if len(leaders) == 0 {
				return refuseVerdict(newStrategyError("group-leader-absent",
					"group "+string(m.GroupID)+" has no leader present", info, boundary))
			}
		}
	}

	return admitVerdict()
}

func (s *GroupCoordinationStrategy) Acquire(boundary BoundaryID, info LockInfo) {
	s.registry.StateFor(boundary).Append(info)
}

func (s *GroupCoordinationStrategy) Release(boundary BoundaryID, info LockInfo) {
	s.registry.StateFor(boundary).Remove(string(info.UniqueID()))
}

func (s *GroupCoordinationStrategy) ClearAll() { s.registry.ClearAll() }

func (s *GroupCoordinationStrategy) Clear(boundary BoundaryID) { s.registry.Clear(boundary) }

func (s *GroupCoordinationStrategy) CurrentLocks() map[BoundaryID][]LockInfo {
	return snapshotToLockInfo(s.registry.Snapshot())
}
