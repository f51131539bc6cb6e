package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/savetogether/backend/internal/models"
	"github.com/savetogether/backend/internal/storage"
)

func scanMembership(row pgx.Row) (models.Membership, error) {
	var m models.Membership
	err := row.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Status, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Membership{}, storage.ErrNotFound
		}
		return models.Membership{}, err
	}
	return m, nil
}

func insertNotification(ctx context.Context, tx pgx.Tx, note models.Notification) error {
	const query = `INSERT INTO notifications (user_id, group_id, message) VALUES ($1, $2, $3)`
	var groupID any
	if note.GroupID != 0 {
		groupID = note.GroupID
	}
	_, err := tx.Exec(ctx, query, note.UserID, groupID, note.Message)
	return err
}

// CreateMembership inserts a join request and the owner notification in
// one transaction. The (group_id, user_id) unique constraint absorbs
// concurrent duplicate requests.
func (s *Store) CreateMembership(ctx context.Context, m models.Membership, note models.Notification) (models.Membership, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Membership{}, err
	}
	defer tx.Rollback(ctx)

	const query = `
	INSERT INTO group_members (group_id, user_id, status)
	VALUES ($1, $2, $3)
	RETURNING id, group_id, user_id, status, joined_at`
	created, err := scanMembership(tx.QueryRow(ctx, query, m.GroupID, m.UserID, m.Status))
	if err != nil {
		if isUniqueViolation(err) {
			return models.Membership{}, storage.ErrAlreadyExists
		}
		return models.Membership{}, err
	}

	if err := insertNotification(ctx, tx, note); err != nil {
		return models.Membership{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Membership{}, err
	}
	return created, nil
}

// GetMembership fetches a membership by ID.
func (s *Store) GetMembership(ctx context.Context, id int64) (models.Membership, error) {
	const query = `SELECT id, group_id, user_id, status, joined_at FROM group_members WHERE id = $1`
	return scanMembership(s.pool.QueryRow(ctx, query, id))
}

// FindMembership fetches the membership for a (group, user) pair, in any
// status.
func (s *Store) FindMembership(ctx context.Context, groupID, userID int64) (models.Membership, error) {
	const query = `
	SELECT id, group_id, user_id, status, joined_at
	FROM group_members WHERE group_id = $1 AND user_id = $2`
	return scanMembership(s.pool.QueryRow(ctx, query, groupID, userID))
}

// ListMembers returns memberships joined with user details, filtered to
// the given statuses, in join order.
func (s *Store) ListMembers(ctx context.Context, groupID int64, statuses ...models.MembershipStatus) ([]models.Member, error) {
	const query = `
	SELECT gm.id, u.id, u.username, u.email, COALESCE(u.profile_picture, ''), gm.status, gm.joined_at
	FROM group_members gm
	JOIN users u ON u.id = gm.user_id
	WHERE gm.group_id = $1 AND gm.status = ANY($2)
	ORDER BY gm.joined_at`

	filter := make([]string, len(statuses))
	for i, st := range statuses {
		filter[i] = string(st)
	}

	rows, err := s.pool.Query(ctx, query, groupID, filter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.MembershipID, &m.UserID, &m.Username, &m.Email,
			&m.ProfilePicture, &m.Status, &m.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateMembershipStatus moves a membership out of the from status and
// writes the member notification in the same transaction. When the row
// exists but is no longer in the from status the update matches nothing
// and ErrConflict is returned, which makes double-submits lose cleanly.
func (s *Store) UpdateMembershipStatus(ctx context.Context, id int64, from, to models.MembershipStatus, note models.Notification) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const query = `UPDATE group_members SET status = $3 WHERE id = $1 AND status = $2`
	tag, err := tx.Exec(ctx, query, id, from, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.GetMembership(ctx, id); errors.Is(err, storage.ErrNotFound) {
			return storage.ErrNotFound
		}
		return storage.ErrConflict
	}

	if err := insertNotification(ctx, tx, note); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
