package models

import "time"

// Group is a shared savings goal. The invite code is assigned at creation
// and never changes; it is the only way to request membership.
type Group struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Target      Cents      `json:"target"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedBy   int64      `json:"created_by"`
	InviteCode  string     `json:"invite_code"`
	CreatedAt   time.Time  `json:"created_at"`
}

// GroupSummary is a group enriched with the aggregates shown on the
// dashboard: the approved total and the active member count.
type GroupSummary struct {
	Group
	TotalContributed Cents `json:"total_contributed"`
	MemberCount      int   `json:"member_count"`
}
