package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/savetogether/backend/internal/models"
	"github.com/savetogether/backend/internal/models/dto"
	"github.com/savetogether/backend/internal/storage"
	"github.com/savetogether/backend/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func createUser(t *testing.T, store storage.Store, name string) models.User {
	t.Helper()
	u, err := store.CreateUser(context.Background(), models.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "unused",
	})
	require.NoError(t, err)
	return u
}

func createGroup(t *testing.T, store storage.Store, ownerID int64, target string) models.Group {
	t.Helper()
	g, err := NewGroupService(store).Create(context.Background(), ownerID, dto.CreateGroupRequest{
		Name:         "Japan Trip",
		TargetAmount: target,
	})
	require.NoError(t, err)
	return g
}

// joinApproved runs the full join workflow: request with the invite code,
// then owner approval.
func joinApproved(t *testing.T, store storage.Store, group models.Group, userID int64) models.Membership {
	t.Helper()
	svc := NewMembershipService(store)
	m, err := svc.RequestJoin(context.Background(), userID, group.InviteCode)
	require.NoError(t, err)
	require.NoError(t, svc.Decide(context.Background(), m.ID, DecisionApprove, group.CreatedBy))
	return m
}
