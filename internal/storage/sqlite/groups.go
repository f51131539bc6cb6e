package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/savetogether/backend/internal/models"
	"github.com/savetogether/backend/internal/storage"
)

const groupColumns = `id, name, description, category, target_cents, deadline, created_by, invite_code, created_at`

func scanGroup(row scanner) (models.Group, error) {
	var g models.Group
	var deadline *int64
	var createdAt int64
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Category, &g.Target,
		&deadline, &g.CreatedBy, &g.InviteCode, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Group{}, storage.ErrNotFound
		}
		return models.Group{}, err
	}
	g.Deadline = fromUnixPtr(deadline)
	g.CreatedAt = fromUnix(createdAt)
	return g, nil
}

// CreateGroup inserts the group and the owner's active membership in one
// transaction. A duplicate invite code surfaces as ErrAlreadyExists.
func (s *Store) CreateGroup(ctx context.Context, group models.Group) (models.Group, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Group{}, err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	const insertGroup = `
	INSERT INTO groups (name, description, category, target_cents, deadline, created_by, invite_code, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING ` + groupColumns
	row := tx.QueryRowContext(ctx, insertGroup,
		group.Name, group.Description, group.Category, group.Target,
		toUnixPtr(group.Deadline), group.CreatedBy, group.InviteCode, now)
	created, err := scanGroup(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Group{}, storage.ErrAlreadyExists
		}
		return models.Group{}, err
	}

	const insertOwner = `
	INSERT INTO group_members (group_id, user_id, status, joined_at) VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insertOwner, created.ID, created.CreatedBy, models.MembershipActive, now); err != nil {
		return models.Group{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Group{}, err
	}
	return created, nil
}

// GetGroup fetches a group by ID.
func (s *Store) GetGroup(ctx context.Context, id int64) (models.Group, error) {
	const query = `SELECT ` + groupColumns + ` FROM groups WHERE id = ?`
	return scanGroup(s.db.QueryRowContext(ctx, query, id))
}

// GetGroupByInviteCode fetches a group by its invite code.
func (s *Store) GetGroupByInviteCode(ctx context.Context, code string) (models.Group, error) {
	const query = `SELECT ` + groupColumns + ` FROM groups WHERE invite_code = ?`
	return scanGroup(s.db.QueryRowContext(ctx, query, code))
}

// ListUserGroups returns the groups where the user is an active member,
// newest first, with approved totals and active member counts.
func (s *Store) ListUserGroups(ctx context.Context, userID int64) ([]models.GroupSummary, error) {
	const query = `
	SELECT g.id, g.name, g.description, g.category, g.target_cents, g.deadline,
		g.created_by, g.invite_code, g.created_at,
		COALESCE((SELECT SUM(c.amount_cents) FROM contributions c
			WHERE c.group_id = g.id AND c.status = 'approved'), 0),
		(SELECT COUNT(*) FROM group_members m
			WHERE m.group_id = g.id AND m.status = 'active')
	FROM groups g
	JOIN group_members gm ON gm.group_id = g.id
	WHERE gm.user_id = ? AND gm.status = 'active'
	ORDER BY g.created_at DESC, g.id DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.GroupSummary
	for rows.Next() {
		var gs models.GroupSummary
		var deadline *int64
		var createdAt int64
		if err := rows.Scan(&gs.ID, &gs.Name, &gs.Description, &gs.Category, &gs.Target,
			&deadline, &gs.CreatedBy, &gs.InviteCode, &createdAt,
			&gs.TotalContributed, &gs.MemberCount); err != nil {
			return nil, err
		}
		gs.Deadline = fromUnixPtr(deadline)
		gs.CreatedAt = fromUnix(createdAt)
		out = append(out, gs)
	}
	return out, rows.Err()
}
