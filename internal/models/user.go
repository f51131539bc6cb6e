package models

import "time"

// User captures application-facing fields for an account. PasswordHash is
// empty for accounts created through Google sign-in only.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	IsPremium      bool      `json:"is_premium"`
	GoogleID       string    `json:"-"`
	GoogleEmail    string    `json:"-"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
