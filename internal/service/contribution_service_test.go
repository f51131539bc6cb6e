package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savetogether/backend/internal/models"
)

func TestContributionLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	member := createUser(t, store, "member")
	joinApproved(t, store, group, member.ID)

	svc := NewContributionService(store)

	first, err := svc.Add(ctx, group.ID, member.ID, 40000, "march deposit", "")
	require.NoError(t, err)
	assert.Equal(t, models.ContributionPending, first.Status)

	second, err := svc.Add(ctx, group.ID, member.ID, 30000, "april deposit", "")
	require.NoError(t, err)

	// Pending contributions never count toward the total.
	total, err := svc.GroupTotal(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Cents(0), total)

	require.NoError(t, svc.Decide(ctx, first.ID, DecisionApprove, owner.ID))
	require.NoError(t, svc.Decide(ctx, second.ID, DecisionApprove, owner.ID))

	total, err = svc.GroupTotal(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Cents(70000), total)

	// A rejected contribution is permanently excluded.
	third, err := svc.Add(ctx, group.ID, member.ID, 99900, "typo", "")
	require.NoError(t, err)
	require.NoError(t, svc.Decide(ctx, third.ID, DecisionReject, owner.ID))

	total, err = svc.GroupTotal(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Cents(70000), total)
}

func TestAddContributionRejectsBadAmounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")

	svc := NewContributionService(store)
	_, err := svc.Add(ctx, group.ID, owner.ID, 0, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.Add(ctx, group.ID, owner.ID, -500, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPendingMemberCannotContribute(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	joiner := createUser(t, store, "joiner")

	_, err := NewMembershipService(store).RequestJoin(ctx, joiner.ID, group.InviteCode)
	require.NoError(t, err)

	_, err = NewContributionService(store).Add(ctx, group.ID, joiner.ID, 10000, "", "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestNonMemberCannotContributeOrSeeHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	outsider := createUser(t, store, "outsider")

	svc := NewContributionService(store)
	_, err := svc.Add(ctx, group.ID, outsider.ID, 10000, "", "")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.History(ctx, group.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDecideContributionTwice(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	member := createUser(t, store, "member")
	joinApproved(t, store, group, member.ID)

	svc := NewContributionService(store)
	c, err := svc.Add(ctx, group.ID, member.ID, 40000, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Decide(ctx, c.ID, DecisionApprove, owner.ID))
	assert.ErrorIs(t, svc.Decide(ctx, c.ID, DecisionReject, owner.ID), ErrInvalidState)

	// The amount stays counted exactly once.
	total, err := svc.GroupTotal(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Cents(40000), total)
}

func TestConcurrentContributionDecides(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	member := createUser(t, store, "member")
	joinApproved(t, store, group, member.ID)

	svc := NewContributionService(store)
	c, err := svc.Add(ctx, group.ID, member.ID, 40000, "", "")
	require.NoError(t, err)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.Decide(ctx, c.ID, DecisionApprove, owner.ID)
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, lost int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInvalidState):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, lost)

	// The amount is counted exactly once and the contributor gets
	// exactly one decision notification.
	total, err := svc.GroupTotal(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Cents(40000), total)
	notes, err := store.ListUnreadNotifications(ctx, member.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 2) // join approval + contribution approval
}

func TestMemberStatsOwnerOnly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	member := createUser(t, store, "member")
	joinApproved(t, store, group, member.ID)

	svc := NewContributionService(store)
	c, err := svc.Add(ctx, group.ID, member.ID, 25000, "", "")
	require.NoError(t, err)
	require.NoError(t, svc.Decide(ctx, c.ID, DecisionApprove, owner.ID))

	_, err = svc.MemberStats(ctx, group.ID, member.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	stats, err := svc.MemberStats(ctx, group.ID, owner.ID)
	require.NoError(t, err)
	require.NotEmpty(t, stats)

	var memberStat *models.MemberStat
	for i := range stats {
		if stats[i].UserID == member.ID {
			memberStat = &stats[i]
		}
	}
	require.NotNil(t, memberStat)
	assert.Equal(t, models.Cents(25000), memberStat.Total)
	assert.Equal(t, 1, memberStat.Count)
}

func TestHistoryListsOnlyApproved(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	member := createUser(t, store, "member")
	joinApproved(t, store, group, member.ID)

	svc := NewContributionService(store)
	approved, err := svc.Add(ctx, group.ID, member.ID, 10000, "kept", "")
	require.NoError(t, err)
	require.NoError(t, svc.Decide(ctx, approved.ID, DecisionApprove, owner.ID))
	_, err = svc.Add(ctx, group.ID, member.ID, 20000, "still pending", "")
	require.NoError(t, err)

	history, err := svc.History(ctx, group.ID, member.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, approved.ID, history[0].ID)
	assert.Equal(t, "member", history[0].Username)
}
