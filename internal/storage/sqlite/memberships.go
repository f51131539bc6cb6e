package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/savetogether/backend/internal/models"
	"github.com/savetogether/backend/internal/storage"
)

func scanMembership(row scanner) (models.Membership, error) {
	var m models.Membership
	var joinedAt int64
	err := row.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Status, &joinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Membership{}, storage.ErrNotFound
		}
		return models.Membership{}, err
	}
	m.JoinedAt = fromUnix(joinedAt)
	return m, nil
}

func insertNotification(ctx context.Context, tx *sql.Tx, note models.Notification) error {
	const query = `INSERT INTO notifications (user_id, group_id, message, created_at) VALUES (?, ?, ?, ?)`
	var groupID any
	if note.GroupID != 0 {
		groupID = note.GroupID
	}
	_, err := tx.ExecContext(ctx, query, note.UserID, groupID, note.Message, time.Now().Unix())
	return err
}

// CreateMembership inserts a join request and the owner notification in
// one transaction. The (group_id, user_id) unique constraint absorbs
// concurrent duplicate requests.
func (s *Store) CreateMembership(ctx context.Context, m models.Membership, note models.Notification) (models.Membership, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Membership{}, err
	}
	defer tx.Rollback()

	const query = `
	INSERT INTO group_members (group_id, user_id, status, joined_at)
	VALUES (?, ?, ?, ?)
	RETURNING id, group_id, user_id, status, joined_at`
	created, err := scanMembership(tx.QueryRowContext(ctx, query, m.GroupID, m.UserID, m.Status, time.Now().Unix()))
	if err != nil {
		if isUniqueViolation(err) {
			return models.Membership{}, storage.ErrAlreadyExists
		}
		return models.Membership{}, err
	}

	if err := insertNotification(ctx, tx, note); err != nil {
		return models.Membership{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Membership{}, err
	}
	return created, nil
}

// GetMembership fetches a membership by ID.
func (s *Store) GetMembership(ctx context.Context, id int64) (models.Membership, error) {
	const query = `SELECT id, group_id, user_id, status, joined_at FROM group_members WHERE id = ?`
	return scanMembership(s.db.QueryRowContext(ctx, query, id))
}

// FindMembership fetches the membership for a (group, user) pair, in any
// status.
func (s *Store) FindMembership(ctx context.Context, groupID, userID int64) (models.Membership, error) {
	const query = `
	SELECT id, group_id, user_id, status, joined_at
	FROM group_members WHERE group_id = ? AND user_id = ?`
	return scanMembership(s.db.QueryRowContext(ctx, query, groupID, userID))
}

// ListMembers returns memberships joined with user details, filtered to
// the given statuses, in join order.
func (s *Store) ListMembers(ctx context.Context, groupID int64, statuses ...models.MembershipStatus) ([]models.Member, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
	query := `
	SELECT gm.id, u.id, u.username, u.email, COALESCE(u.profile_picture, ''), gm.status, gm.joined_at
	FROM group_members gm
	JOIN users u ON u.id = gm.user_id
	WHERE gm.group_id = ? AND gm.status IN (` + placeholders + `)
	ORDER BY gm.joined_at, gm.id`

	args := make([]any, 0, len(statuses)+1)
	args = append(args, groupID)
	for _, st := range statuses {
		args = append(args, string(st))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Member
	for rows.Next() {
		var m models.Member
		var joinedAt int64
		if err := rows.Scan(&m.MembershipID, &m.UserID, &m.Username, &m.Email,
			&m.ProfilePicture, &m.Status, &joinedAt); err != nil {
			return nil, err
		}
		m.JoinedAt = fromUnix(joinedAt)
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateMembershipStatus moves a membership out of the from status and
// writes the member notification in the same transaction. When the row
// exists but is no longer in the from status the update matches nothing
// and ErrConflict is returned.
func (s *Store) UpdateMembershipStatus(ctx context.Context, id int64, from, to models.MembershipStatus, note models.Notification) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const query = `UPDATE group_members SET status = ? WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a missing row from one already decided, on the
		// same connection so the open transaction cannot starve us.
		const exists = `SELECT EXISTS (SELECT 1 FROM group_members WHERE id = ?)`
		var found bool
		if err := tx.QueryRowContext(ctx, exists, id).Scan(&found); err != nil {
			return err
		}
		if !found {
			return storage.ErrNotFound
		}
		return storage.ErrConflict
	}

	if err := insertNotification(ctx, tx, note); err != nil {
		return err
	}
	return tx.Commit()
}
