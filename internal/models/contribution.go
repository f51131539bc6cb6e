package models

import "time"

// Contribution is an amount a member claims to have added toward the
// group's goal. The amount is immutable after creation; only the status
// moves, and only once.
type Contribution struct {
	ID            int64              `json:"id"`
	GroupID       int64              `json:"group_id"`
	UserID        int64              `json:"user_id"`
	Amount        Cents              `json:"amount"`
	Description   string             `json:"description"`
	ProofImage    string             `json:"proof_image,omitempty"`
	Status        ContributionStatus `json:"status"`
	ContributedAt time.Time          `json:"contributed_at"`
}

// ContributionDetail is a contribution joined with contributor and group
// names for history views.
type ContributionDetail struct {
	Contribution
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	GroupName      string `json:"group_name,omitempty"`
}

// MemberStat aggregates one member's approved contributions in a group.
type MemberStat struct {
	UserID         int64      `json:"user_id"`
	Username       string     `json:"username"`
	ProfilePicture string     `json:"profile_picture,omitempty"`
	Total          Cents      `json:"total"`
	Count          int        `json:"count"`
	LastDate       *time.Time `json:"last_date,omitempty"`
}
