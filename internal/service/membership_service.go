package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/savetogether/backend/internal/models"
	"github.com/savetogether/backend/internal/storage"
)

// Decision is an owner's verdict on a pending membership or contribution.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// MembershipService mediates who may see and contribute to a group.
type MembershipService struct {
	store storage.Store
}

// NewMembershipService creates a MembershipService with the given storage
// backend.
func NewMembershipService(store storage.Store) *MembershipService {
	return &MembershipService{store: store}
}

// RequestJoin submits a join request for the group matching the invite
// code. The request lands as pending and notifies the group owner; the
// requester stays inert until the owner decides.
func (s *MembershipService) RequestJoin(ctx context.Context, userID int64, inviteCode string) (models.Membership, error) {
	group, err := s.store.GetGroupByInviteCode(ctx, inviteCode)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Membership{}, fmt.Errorf("invite code: %w", ErrNotFound)
		}
		return models.Membership{}, err
	}

	requester, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return models.Membership{}, err
	}

	membership := models.Membership{
		GroupID: group.ID,
		UserID:  userID,
		Status:  models.MembershipPending,
	}
	note := models.Notification{
		UserID:  group.CreatedBy,
		GroupID: group.ID,
		Message: fmt.Sprintf("%s wants to join %q and is waiting for your approval.", requester.Username, group.Name),
	}

	created, err := s.store.CreateMembership(ctx, membership, note)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.Membership{}, ErrAlreadyMember
		}
		return models.Membership{}, err
	}

	slog.Info("join requested", "group_id", group.ID, "user_id", userID)
	return created, nil
}

// Decide approves or rejects a pending membership. Only the group owner
// may decide, and only once; the conditional status update makes a
// concurrent double-submit fail with ErrInvalidState without a second
// notification.
func (s *MembershipService) Decide(ctx context.Context, membershipID int64, decision Decision, actorID int64) error {
	membership, err := s.store.GetMembership(ctx, membershipID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("membership %d: %w", membershipID, ErrNotFound)
		}
		return err
	}

	group, err := s.store.GetGroup(ctx, membership.GroupID)
	if err != nil {
		return err
	}
	if group.CreatedBy != actorID {
		return fmt.Errorf("only the group owner may decide: %w", ErrForbidden)
	}

	var target models.MembershipStatus
	var message string
	switch decision {
	case DecisionApprove:
		target = models.MembershipActive
		message = fmt.Sprintf("Your request to join %q has been approved!", group.Name)
	case DecisionReject:
		target = models.MembershipRejected
		message = fmt.Sprintf("Your request to join %q has been rejected.", group.Name)
	default:
		return fmt.Errorf("unknown decision %q: %w", decision, ErrValidation)
	}
	if !membership.Status.CanTransitionTo(target) {
		return fmt.Errorf("membership is %s: %w", membership.Status, ErrInvalidState)
	}

	note := models.Notification{UserID: membership.UserID, GroupID: group.ID, Message: message}
	err = s.store.UpdateMembershipStatus(ctx, membershipID, models.MembershipPending, target, note)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("membership %d: %w", membershipID, ErrNotFound)
	case errors.Is(err, storage.ErrConflict):
		return fmt.Errorf("membership already decided: %w", ErrInvalidState)
	case err != nil:
		return err
	}

	slog.Info("membership decided",
		"membership_id", membershipID, "group_id", group.ID, "status", target)
	return nil
}

// PendingAndRejected returns the join requests the owner manages. Only
// the owner may see them.
func (s *MembershipService) PendingAndRejected(ctx context.Context, groupID, actorID int64) (pending, rejected []models.Member, err error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("group %d: %w", groupID, ErrNotFound)
		}
		return nil, nil, err
	}
	if group.CreatedBy != actorID {
		return nil, nil, fmt.Errorf("only the group owner may review requests: %w", ErrForbidden)
	}

	members, err := s.store.ListMembers(ctx, groupID, models.MembershipPending, models.MembershipRejected)
	if err != nil {
		return nil, nil, err
	}
	for _, m := range members {
		if m.Status == models.MembershipPending {
			pending = append(pending, m)
		} else {
			rejected = append(rejected, m)
		}
	}
	return pending, rejected, nil
}

// requireActiveMember returns the membership if the user is an active
// member of the group, and ErrForbidden otherwise. Pending and rejected
// memberships are inert.
func requireActiveMember(ctx context.Context, store storage.Store, groupID, userID int64) (models.Membership, error) {
	m, err := store.FindMembership(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Membership{}, fmt.Errorf("not a member of group %d: %w", groupID, ErrForbidden)
		}
		return models.Membership{}, err
	}
	if m.Status != models.MembershipActive {
		return models.Membership{}, fmt.Errorf("membership is %s: %w", m.Status, ErrForbidden)
	}
	return m, nil
}
