package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savetogether/backend/internal/models"
	"github.com/savetogether/backend/internal/models/dto"
)

func TestCreateGroup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")

	group, err := NewGroupService(store).Create(ctx, owner.ID, dto.CreateGroupRequest{
		Name:         "House Fund",
		Description:  "Down payment",
		Category:     "housing",
		TargetAmount: "25000.00",
		Deadline:     "2027-06-30",
	})
	require.NoError(t, err)
	assert.Equal(t, models.Cents(2500000), group.Target)
	assert.Len(t, group.InviteCode, 8)
	require.NotNil(t, group.Deadline)

	// The creator joins as an active member immediately.
	m, err := store.FindMembership(ctx, group.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipActive, m.Status)

	summaries, err := store.ListUserGroups(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].MemberCount)
}

func TestCreateGroupValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	svc := NewGroupService(store)

	_, err := svc.Create(ctx, owner.ID, dto.CreateGroupRequest{Name: "", TargetAmount: "100"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, owner.ID, dto.CreateGroupRequest{Name: "x", TargetAmount: "0"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, owner.ID, dto.CreateGroupRequest{Name: "x", TargetAmount: "-5"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, owner.ID, dto.CreateGroupRequest{Name: "x", TargetAmount: "abc"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, owner.ID, dto.CreateGroupRequest{Name: "x", TargetAmount: "100", Deadline: "June 2027"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGroupDetailVisibility(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	member := createUser(t, store, "member")
	joinApproved(t, store, group, member.ID)
	pendingUser := createUser(t, store, "waiting")
	_, err := NewMembershipService(store).RequestJoin(ctx, pendingUser.ID, group.InviteCode)
	require.NoError(t, err)

	svc := NewGroupService(store)

	// The owner sees the pending join request; a plain member does not.
	ownerView, err := svc.Detail(ctx, group.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, ownerView.IsOwner)
	assert.Len(t, ownerView.PendingMembers, 1)

	memberView, err := svc.Detail(ctx, group.ID, member.ID)
	require.NoError(t, err)
	assert.False(t, memberView.IsOwner)
	assert.Empty(t, memberView.PendingMembers)
	assert.Len(t, memberView.Members, 2)

	// Pending members and outsiders cannot open the page at all.
	_, err = svc.Detail(ctx, group.ID, pendingUser.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	outsider := createUser(t, store, "outsider")
	_, err = svc.Detail(ctx, group.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGroupProgress(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	member := createUser(t, store, "member")
	joinApproved(t, store, group, member.ID)

	contributions := NewContributionService(store)
	c, err := contributions.Add(ctx, group.ID, member.ID, 40000, "", "")
	require.NoError(t, err)
	require.NoError(t, contributions.Decide(ctx, c.ID, DecisionApprove, owner.ID))

	progress, err := NewGroupService(store).Progress(ctx, group.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Cents(100000), progress.Target)
	assert.Equal(t, models.Cents(40000), progress.Contributed)
	assert.InDelta(t, 40.0, progress.Percentage, 0.001)
}

func TestExportRequiresPremium(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")

	svc := NewGroupService(store)
	_, _, err := svc.ExportData(ctx, group.ID, owner.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, NewUserService(store).Upgrade(ctx, owner.ID))

	exported, rows, err := svc.ExportData(ctx, group.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, group.ID, exported.ID)
	assert.Empty(t, rows)
}

func TestExportRequiresMembership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	outsider := createUser(t, store, "outsider")
	require.NoError(t, NewUserService(store).Upgrade(ctx, outsider.ID))

	_, _, err := NewGroupService(store).ExportData(ctx, group.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
