// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/savetogether/backend/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrConflict indicates a conditional update matched no row because the
// row is no longer in the expected status.
var ErrConflict = errors.New("row not in expected status")

// Store captures the persistence operations the services need. Methods
// that change workflow state take the notification to write alongside the
// change; implementations must apply both in a single transaction so a
// state change never lands without its user-facing signal.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	FindByUsernameOrEmail(ctx context.Context, identifier string) (models.User, error)
	FindByGoogleIDOrEmail(ctx context.Context, googleID, email string) (models.User, error)
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	UpdateUserProfile(ctx context.Context, id int64, username, email, profilePicture string) (models.User, error)
	SetUserPremium(ctx context.Context, id int64, premium bool) error
	LinkGoogleAccount(ctx context.Context, id int64, googleID, googleEmail, picture string) error

	// Groups. CreateGroup also inserts the owner's active membership.
	CreateGroup(ctx context.Context, group models.Group) (models.Group, error)
	GetGroup(ctx context.Context, id int64) (models.Group, error)
	GetGroupByInviteCode(ctx context.Context, code string) (models.Group, error)
	ListUserGroups(ctx context.Context, userID int64) ([]models.GroupSummary, error)

	// Memberships. CreateMembership returns ErrAlreadyExists when a row
	// for the (group, user) pair exists in any status.
	// UpdateMembershipStatus applies the change only if the row is still
	// in the from status and returns ErrConflict otherwise.
	CreateMembership(ctx context.Context, m models.Membership, note models.Notification) (models.Membership, error)
	GetMembership(ctx context.Context, id int64) (models.Membership, error)
	FindMembership(ctx context.Context, groupID, userID int64) (models.Membership, error)
	ListMembers(ctx context.Context, groupID int64, statuses ...models.MembershipStatus) ([]models.Member, error)
	UpdateMembershipStatus(ctx context.Context, id int64, from, to models.MembershipStatus, note models.Notification) error

	// Contributions. The conditional-update contract matches memberships.
	CreateContribution(ctx context.Context, c models.Contribution, note models.Notification) (models.Contribution, error)
	GetContribution(ctx context.Context, id int64) (models.Contribution, error)
	ListContributions(ctx context.Context, groupID int64, status models.ContributionStatus) ([]models.ContributionDetail, error)
	ListRecentContributions(ctx context.Context, userID int64, limit int) ([]models.ContributionDetail, error)
	UpdateContributionStatus(ctx context.Context, id int64, from, to models.ContributionStatus, note models.Notification) error
	ApprovedTotal(ctx context.Context, groupID int64) (models.Cents, error)
	MemberStats(ctx context.Context, groupID int64) ([]models.MemberStat, error)

	// Notifications.
	ListUnreadNotifications(ctx context.Context, userID int64) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID int64) error

	// Close releases any resources held by the store.
	Close()
}
