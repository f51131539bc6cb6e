// Package service implements the membership and contribution lifecycles
// and the supporting group, user, and notification operations. All state
// changes go through here; nothing else writes status fields.
package service

import "errors"

// The user-facing error taxonomy. Handlers map these to HTTP statuses;
// none are fatal to the process.
var (
	// ErrNotFound covers bad IDs and bad invite codes.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the actor lacks the required role or membership.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState means the transition is not allowed from the row's
	// current status, typically a double-submit.
	ErrInvalidState = errors.New("not in a decidable state")
	// ErrAlreadyMember means a membership row already exists for the
	// (group, user) pair, in any status.
	ErrAlreadyMember = errors.New("already requested or member")
	// ErrInvalidAmount means a non-positive contribution amount.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrValidation covers malformed or missing request fields.
	ErrValidation = errors.New("invalid input")
)
