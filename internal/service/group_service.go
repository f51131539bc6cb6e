package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/savetogether/backend/internal/models"
	"github.com/savetogether/backend/internal/models/dto"
	"github.com/savetogether/backend/internal/storage"
)

// inviteCodeAttempts bounds the regenerate-and-retry loop on invite code
// collisions. Eight hex characters collide rarely enough that hitting the
// bound means something else is wrong.
const inviteCodeAttempts = 5

// GroupService creates groups and assembles the read views around them.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// newInviteCode returns a short random invite token.
func newInviteCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Create validates and persists a new group. The creator becomes the
// owner and joins as an active member in the same transaction. Invite
// code collisions are retried with a fresh code.
func (s *GroupService) Create(ctx context.Context, ownerID int64, req dto.CreateGroupRequest) (models.Group, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Group{}, fmt.Errorf("name is required: %w", ErrValidation)
	}
	target, err := models.ParseCents(req.TargetAmount)
	if err != nil || target <= 0 {
		return models.Group{}, fmt.Errorf("target amount must be a positive decimal: %w", ErrValidation)
	}

	var deadline *time.Time
	if strings.TrimSpace(req.Deadline) != "" {
		d, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			return models.Group{}, fmt.Errorf("deadline must be YYYY-MM-DD: %w", ErrValidation)
		}
		deadline = &d
	}

	group := models.Group{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Target:      target,
		Deadline:    deadline,
		CreatedBy:   ownerID,
	}

	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		group.InviteCode = newInviteCode()
		created, err := s.store.CreateGroup(ctx, group)
		if errors.Is(err, storage.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return models.Group{}, err
		}
		slog.Info("group created", "group_id", created.ID, "owner_id", ownerID)
		return created, nil
	}
	return models.Group{}, fmt.Errorf("could not allocate a unique invite code after %d attempts", inviteCodeAttempts)
}

// Dashboard returns the groups the user is an active member of, enriched
// with approved totals and member counts.
func (s *GroupService) Dashboard(ctx context.Context, userID int64) ([]models.GroupSummary, error) {
	return s.store.ListUserGroups(ctx, userID)
}

// Detail assembles the group page. Callers must be active members; the
// owner additionally sees pending and rejected join requests and pending
// contributions.
func (s *GroupService) Detail(ctx context.Context, groupID, userID int64) (dto.GroupDetail, error) {
	if _, err := requireActiveMember(ctx, s.store, groupID, userID); err != nil {
		return dto.GroupDetail{}, err
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return dto.GroupDetail{}, fmt.Errorf("group %d: %w", groupID, ErrNotFound)
		}
		return dto.GroupDetail{}, err
	}

	members, err := s.store.ListMembers(ctx, groupID, models.MembershipActive)
	if err != nil {
		return dto.GroupDetail{}, err
	}
	total, err := s.store.ApprovedTotal(ctx, groupID)
	if err != nil {
		return dto.GroupDetail{}, err
	}
	contributions, err := s.store.ListContributions(ctx, groupID, models.ContributionApproved)
	if err != nil {
		return dto.GroupDetail{}, err
	}

	detail := dto.GroupDetail{
		Group:            group,
		Members:          members,
		TotalContributed: total,
		ProgressPercent:  progressPercent(total, group.Target),
		Contributions:    contributions,
		IsOwner:          group.CreatedBy == userID,
	}

	if detail.IsOwner {
		requests, err := s.store.ListMembers(ctx, groupID, models.MembershipPending, models.MembershipRejected)
		if err != nil {
			return dto.GroupDetail{}, err
		}
		for _, m := range requests {
			if m.Status == models.MembershipPending {
				detail.PendingMembers = append(detail.PendingMembers, m)
			} else {
				detail.RejectedMembers = append(detail.RejectedMembers, m)
			}
		}
		detail.PendingContributions, err = s.store.ListContributions(ctx, groupID, models.ContributionPending)
		if err != nil {
			return dto.GroupDetail{}, err
		}
	}

	return detail, nil
}

// Progress returns the target, approved total, and completion percentage
// for any member of the group regardless of status.
func (s *GroupService) Progress(ctx context.Context, groupID, userID int64) (dto.GroupProgress, error) {
	if _, err := s.store.FindMembership(ctx, groupID, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return dto.GroupProgress{}, fmt.Errorf("not a member of group %d: %w", groupID, ErrForbidden)
		}
		return dto.GroupProgress{}, err
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return dto.GroupProgress{}, fmt.Errorf("group %d: %w", groupID, ErrNotFound)
		}
		return dto.GroupProgress{}, err
	}
	total, err := s.store.ApprovedTotal(ctx, groupID)
	if err != nil {
		return dto.GroupProgress{}, err
	}

	return dto.GroupProgress{
		Target:      group.Target,
		Contributed: total,
		Percentage:  progressPercent(total, group.Target),
	}, nil
}

// ExportData returns the group and its full contribution history for the
// CSV export. The caller must be a premium user and a member of the
// group.
func (s *GroupService) ExportData(ctx context.Context, groupID, userID int64) (models.Group, []models.ContributionDetail, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return models.Group{}, nil, err
	}
	if !user.IsPremium {
		return models.Group{}, nil, fmt.Errorf("export requires a premium account: %w", ErrForbidden)
	}
	if _, err := s.store.FindMembership(ctx, groupID, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Group{}, nil, fmt.Errorf("not a member of group %d: %w", groupID, ErrForbidden)
		}
		return models.Group{}, nil, err
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Group{}, nil, fmt.Errorf("group %d: %w", groupID, ErrNotFound)
		}
		return models.Group{}, nil, err
	}

	var all []models.ContributionDetail
	for _, status := range []models.ContributionStatus{
		models.ContributionApproved, models.ContributionPending, models.ContributionRejected,
	} {
		rows, err := s.store.ListContributions(ctx, groupID, status)
		if err != nil {
			return models.Group{}, nil, err
		}
		all = append(all, rows...)
	}
	return group, all, nil
}

func progressPercent(total, target models.Cents) float64 {
	if target <= 0 {
		return 0
	}
	return float64(total) / float64(target) * 100
}
