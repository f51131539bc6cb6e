package models

import "time"

// Notification is a user-facing message written as a side effect of a
// membership or contribution state change. GroupID is zero for messages
// not scoped to a group.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	GroupID   int64     `json:"group_id,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
