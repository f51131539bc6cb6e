package dto

import "github.com/savetogether/backend/internal/models"

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	// TargetAmount is a decimal string like "1000.00".
	TargetAmount string `json:"target_amount"`
	// Deadline is an optional YYYY-MM-DD date.
	Deadline string `json:"deadline"`
}

type JoinGroupRequest struct {
	InviteCode string `json:"invite_code"`
}

// GroupDetail is everything the group page shows. PendingMembers,
// RejectedMembers, and PendingContributions are only populated for the
// group owner.
type GroupDetail struct {
	Group                models.Group                `json:"group"`
	Members              []models.Member             `json:"members"`
	TotalContributed     models.Cents                `json:"total_contributed"`
	ProgressPercent      float64                     `json:"progress_percent"`
	Contributions        []models.ContributionDetail `json:"contributions"`
	IsOwner              bool                        `json:"is_owner"`
	PendingMembers       []models.Member             `json:"pending_members,omitempty"`
	RejectedMembers      []models.Member             `json:"rejected_members,omitempty"`
	PendingContributions []models.ContributionDetail `json:"pending_contributions,omitempty"`
}

type GroupProgress struct {
	Target      models.Cents `json:"target"`
	Contributed models.Cents `json:"contributed"`
	Percentage  float64      `json:"percentage"`
}
