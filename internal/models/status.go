package models

// MembershipStatus is the approval state of a group membership. The only
// legal transitions are pending -> active and pending -> rejected; both
// end states are terminal.
type MembershipStatus string

const (
	MembershipPending  MembershipStatus = "pending"
	MembershipActive   MembershipStatus = "active"
	MembershipRejected MembershipStatus = "rejected"
)

// Valid reports whether s is a known membership status.
func (s MembershipStatus) Valid() bool {
	switch s {
	case MembershipPending, MembershipActive, MembershipRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether the workflow allows moving from s to next.
func (s MembershipStatus) CanTransitionTo(next MembershipStatus) bool {
	return s == MembershipPending &&
		(next == MembershipActive || next == MembershipRejected)
}

// ContributionStatus is the approval state of a contribution. Transitions
// mirror memberships: pending -> approved|rejected, nothing else.
type ContributionStatus string

const (
	ContributionPending  ContributionStatus = "pending"
	ContributionApproved ContributionStatus = "approved"
	ContributionRejected ContributionStatus = "rejected"
)

// Valid reports whether s is a known contribution status.
func (s ContributionStatus) Valid() bool {
	switch s {
	case ContributionPending, ContributionApproved, ContributionRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether the workflow allows moving from s to next.
func (s ContributionStatus) CanTransitionTo(next ContributionStatus) bool {
	return s == ContributionPending &&
		(next == ContributionApproved || next == ContributionRejected)
}
