package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/savetogether/backend/internal/models"
	"github.com/savetogether/backend/internal/storage"
)

// ContributionService records and gates funds toward a group's target.
type ContributionService struct {
	store storage.Store
}

// NewContributionService creates a ContributionService with the given
// storage backend.
func NewContributionService(store storage.Store) *ContributionService {
	return &ContributionService{store: store}
}

// Add records a pending contribution from an active member and notifies
// the group owner. The amount is immutable once recorded.
func (s *ContributionService) Add(ctx context.Context, groupID, userID int64, amount models.Cents, description, proofImage string) (models.Contribution, error) {
	if amount <= 0 {
		return models.Contribution{}, fmt.Errorf("amount %s: %w", amount, ErrInvalidAmount)
	}
	if _, err := requireActiveMember(ctx, s.store, groupID, userID); err != nil {
		return models.Contribution{}, err
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Contribution{}, fmt.Errorf("group %d: %w", groupID, ErrNotFound)
		}
		return models.Contribution{}, err
	}
	contributor, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return models.Contribution{}, err
	}

	contribution := models.Contribution{
		GroupID:     groupID,
		UserID:      userID,
		Amount:      amount,
		Description: description,
		ProofImage:  proofImage,
		Status:      models.ContributionPending,
	}
	note := models.Notification{
		UserID:  group.CreatedBy,
		GroupID: groupID,
		Message: fmt.Sprintf("%s submitted a contribution of %s to %q for review.", contributor.Username, amount, group.Name),
	}

	created, err := s.store.CreateContribution(ctx, contribution, note)
	if err != nil {
		return models.Contribution{}, err
	}

	slog.Info("contribution submitted",
		"contribution_id", created.ID, "group_id", groupID, "user_id", userID, "amount", amount.String())
	return created, nil
}

// Decide approves or rejects a pending contribution. Approval permanently
// includes the amount in the group total, rejection permanently excludes
// it; there is no partial or amended approval.
func (s *ContributionService) Decide(ctx context.Context, contributionID int64, decision Decision, actorID int64) error {
	contribution, err := s.store.GetContribution(ctx, contributionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("contribution %d: %w", contributionID, ErrNotFound)
		}
		return err
	}

	group, err := s.store.GetGroup(ctx, contribution.GroupID)
	if err != nil {
		return err
	}
	if group.CreatedBy != actorID {
		return fmt.Errorf("only the group owner may decide: %w", ErrForbidden)
	}

	var target models.ContributionStatus
	var message string
	switch decision {
	case DecisionApprove:
		target = models.ContributionApproved
		message = fmt.Sprintf("Your contribution of %s to %q has been approved!", contribution.Amount, group.Name)
	case DecisionReject:
		target = models.ContributionRejected
		message = fmt.Sprintf("Your contribution of %s to %q has been rejected. Contact the owner for details.", contribution.Amount, group.Name)
	default:
		return fmt.Errorf("unknown decision %q: %w", decision, ErrValidation)
	}
	if !contribution.Status.CanTransitionTo(target) {
		return fmt.Errorf("contribution is %s: %w", contribution.Status, ErrInvalidState)
	}

	note := models.Notification{UserID: contribution.UserID, GroupID: group.ID, Message: message}
	err = s.store.UpdateContributionStatus(ctx, contributionID, models.ContributionPending, target, note)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("contribution %d: %w", contributionID, ErrNotFound)
	case errors.Is(err, storage.ErrConflict):
		return fmt.Errorf("contribution already decided: %w", ErrInvalidState)
	case err != nil:
		return err
	}

	slog.Info("contribution decided",
		"contribution_id", contributionID, "group_id", group.ID, "status", target)
	return nil
}

// GroupTotal returns the sum of approved contribution amounts for the
// group. Approval is a single conditional update, so the SQL sum never
// observes a half-applied decision.
func (s *ContributionService) GroupTotal(ctx context.Context, groupID int64) (models.Cents, error) {
	return s.store.ApprovedTotal(ctx, groupID)
}

// History returns a group's approved contributions, newest first, for any
// active member.
func (s *ContributionService) History(ctx context.Context, groupID, userID int64) ([]models.ContributionDetail, error) {
	if _, err := requireActiveMember(ctx, s.store, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.ListContributions(ctx, groupID, models.ContributionApproved)
}

// Recent returns the latest approved contributions across the user's
// groups, for the dashboard.
func (s *ContributionService) Recent(ctx context.Context, userID int64, limit int) ([]models.ContributionDetail, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.store.ListRecentContributions(ctx, userID, limit)
}

// MemberStats aggregates approved contributions per active member. Only
// the owner may see them.
func (s *ContributionService) MemberStats(ctx context.Context, groupID, actorID int64) ([]models.MemberStat, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("group %d: %w", groupID, ErrNotFound)
		}
		return nil, err
	}
	if group.CreatedBy != actorID {
		return nil, fmt.Errorf("only the group owner may view stats: %w", ErrForbidden)
	}
	return s.store.MemberStats(ctx, groupID)
}
