package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savetogether/backend/internal/storage"
)

func TestUpdateProfile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "alice")
	createUser(t, store, "bob")

	svc := NewUserService(store)

	updated, err := svc.UpdateProfile(ctx, user.ID, "alice2", "alice2@example.com", "https://example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "alice2@example.com", updated.Email)

	// Values another user holds are rejected; keeping your own is fine.
	_, err = svc.UpdateProfile(ctx, user.ID, "bob", "alice2@example.com", "")
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	_, err = svc.UpdateProfile(ctx, user.ID, "alice2", "bob@example.com", "")
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	_, err = svc.UpdateProfile(ctx, user.ID, "alice2", "alice2@example.com", "")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, user.ID, "", "x@example.com", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpgrade(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "alice")

	require.NoError(t, NewUserService(store).Upgrade(ctx, user.ID))

	fetched, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, fetched.IsPremium)
}

func TestNotificationsMarkRead(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	group := createGroup(t, store, owner.ID, "1000.00")
	joiner := createUser(t, store, "joiner")
	_, err := NewMembershipService(store).RequestJoin(ctx, joiner.ID, group.InviteCode)
	require.NoError(t, err)

	svc := NewNotificationService(store)
	notes, err := svc.Unread(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	// Only the recipient can mark it read.
	assert.ErrorIs(t, svc.MarkRead(ctx, notes[0].ID, joiner.ID), ErrNotFound)
	require.NoError(t, svc.MarkRead(ctx, notes[0].ID, owner.ID))

	notes, err = svc.Unread(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)

	assert.ErrorIs(t, svc.MarkRead(ctx, 9999, owner.ID), ErrNotFound)
}
