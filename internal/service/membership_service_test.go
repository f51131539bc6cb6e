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

func TestRequestJoinWrongInviteCode(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	createGroup(t, store, owner.ID, "1000.00")
	joiner := createUser(t, store, "joiner")

	_, err := NewMembershipService(store).RequestJoin(ctx, joiner.ID, "deadbeef")
	assert.ErrorIs(t, err, ErrNotFound)

	// No membership row may exist after a failed join.
	groups, err := store.ListUserGroups(ctx, joiner.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestRequestJoinIsPendingUntilDecided(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	joiner := createUser(t, store, "joiner")

	svc := NewMembershipService(store)
	m, err := svc.RequestJoin(ctx, joiner.ID, group.InviteCode)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipPending, m.Status)

	// The owner is notified of the request.
	notes, err := store.ListUnreadNotifications(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "joiner")

	// A pending member does not appear on the dashboard.
	groups, err := store.ListUserGroups(ctx, joiner.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestDuplicateJoinRequest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	joiner := createUser(t, store, "joiner")

	svc := NewMembershipService(store)
	_, err := svc.RequestJoin(ctx, joiner.ID, group.InviteCode)
	require.NoError(t, err)

	_, err = svc.RequestJoin(ctx, joiner.ID, group.InviteCode)
	assert.ErrorIs(t, err, ErrAlreadyMember)

	// Exactly one request landed, and exactly one owner notification.
	pending, _, err := svc.PendingAndRejected(ctx, group.ID, owner.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	notes, err := store.ListUnreadNotifications(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestOwnerCannotRejoinOwnGroup(t *testing.T) {
	store := newTestStore(t)
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")

	// Creation already made the owner an active member.
	_, err := NewMembershipService(store).RequestJoin(context.Background(), owner.ID, group.InviteCode)
	assert.ErrorIs(t, err, ErrAlreadyMember)
}

func TestDecideMembership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	joiner := createUser(t, store, "joiner")

	svc := NewMembershipService(store)
	m, err := svc.RequestJoin(ctx, joiner.ID, group.InviteCode)
	require.NoError(t, err)

	require.NoError(t, svc.Decide(ctx, m.ID, DecisionApprove, owner.ID))

	updated, err := store.GetMembership(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipActive, updated.Status)

	// The requester gets exactly one decision notification.
	notes, err := store.ListUnreadNotifications(ctx, joiner.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "approved")
}

func TestDecideMembershipTwice(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	joiner := createUser(t, store, "joiner")

	svc := NewMembershipService(store)
	m, err := svc.RequestJoin(ctx, joiner.ID, group.InviteCode)
	require.NoError(t, err)

	require.NoError(t, svc.Decide(ctx, m.ID, DecisionApprove, owner.ID))
	assert.ErrorIs(t, svc.Decide(ctx, m.ID, DecisionApprove, owner.ID), ErrInvalidState)
	assert.ErrorIs(t, svc.Decide(ctx, m.ID, DecisionReject, owner.ID), ErrInvalidState)

	// The failed second decision must not produce another notification.
	notes, err := store.ListUnreadNotifications(ctx, joiner.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestRejectedMembershipIsTerminal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	joiner := createUser(t, store, "joiner")

	svc := NewMembershipService(store)
	m, err := svc.RequestJoin(ctx, joiner.ID, group.InviteCode)
	require.NoError(t, err)
	require.NoError(t, svc.Decide(ctx, m.ID, DecisionReject, owner.ID))

	// No second decision, and no fresh request either; the row stays.
	assert.ErrorIs(t, svc.Decide(ctx, m.ID, DecisionApprove, owner.ID), ErrInvalidState)
	_, err = svc.RequestJoin(ctx, joiner.ID, group.InviteCode)
	assert.ErrorIs(t, err, ErrAlreadyMember)
}

func TestConcurrentJoinRequests(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	joiner := createUser(t, store, "joiner")

	svc := NewMembershipService(store)
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RequestJoin(ctx, joiner.ID, group.InviteCode)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, duplicate int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrAlreadyMember):
			duplicate++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, duplicate)

	// Exactly one row landed, and exactly one owner notification.
	pending, _, err := svc.PendingAndRejected(ctx, group.ID, owner.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	notes, err := store.ListUnreadNotifications(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestConcurrentMembershipDecides(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	joiner := createUser(t, store, "joiner")

	svc := NewMembershipService(store)
	m, err := svc.RequestJoin(ctx, joiner.ID, group.InviteCode)
	require.NoError(t, err)

	// An approve and a reject race on the same pending row; the
	// conditional update lets exactly one through.
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, decision := range []Decision{DecisionApprove, DecisionReject} {
		wg.Add(1)
		go func(d Decision) {
			defer wg.Done()
			errs <- svc.Decide(ctx, m.ID, d, owner.ID)
		}(decision)
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

	// The row ended in exactly one terminal state, with exactly one
	// decision notification.
	decided, err := store.GetMembership(ctx, m.ID)
	require.NoError(t, err)
	assert.NotEqual(t, models.MembershipPending, decided.Status)
	notes, err := store.ListUnreadNotifications(ctx, joiner.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestDecideRequiresOwner(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	joiner := createUser(t, store, "joiner")
	outsider := createUser(t, store, "outsider")

	svc := NewMembershipService(store)
	m, err := svc.RequestJoin(ctx, joiner.ID, group.InviteCode)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Decide(ctx, m.ID, DecisionApprove, outsider.ID), ErrForbidden)
	assert.ErrorIs(t, svc.Decide(ctx, m.ID, DecisionApprove, joiner.ID), ErrForbidden)

	_, _, err = svc.PendingAndRejected(ctx, group.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
