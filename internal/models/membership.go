package models

import "time"

// Membership is the relationship of one user to one group. There is at
// most one row per (group, user) pair regardless of status.
type Membership struct {
	ID       int64            `json:"id"`
	GroupID  int64            `json:"group_id"`
	UserID   int64            `json:"user_id"`
	Status   MembershipStatus `json:"status"`
	JoinedAt time.Time        `json:"joined_at"`
}

// Member is a membership joined with the user it belongs to, as rendered
// on group pages.
type Member struct {
	MembershipID   int64            `json:"membership_id"`
	UserID         int64            `json:"user_id"`
	Username       string           `json:"username"`
	Email          string           `json:"email"`
	ProfilePicture string           `json:"profile_picture,omitempty"`
	Status         MembershipStatus `json:"status"`
	JoinedAt       time.Time        `json:"joined_at"`
}
