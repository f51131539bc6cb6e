package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/savetogether/backend/internal/models"
	"github.com/savetogether/backend/internal/storage"
)

const contributionColumns = `id, group_id, user_id, amount_cents, description,
	COALESCE(proof_image, ''), status, contributed_at`

func scanContribution(row scanner) (models.Contribution, error) {
	var c models.Contribution
	var contributedAt int64
	err := row.Scan(&c.ID, &c.GroupID, &c.UserID, &c.Amount, &c.Description,
		&c.ProofImage, &c.Status, &contributedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Contribution{}, storage.ErrNotFound
		}
		return models.Contribution{}, err
	}
	c.ContributedAt = fromUnix(contributedAt)
	return c, nil
}

// CreateContribution inserts a pending contribution and the owner
// notification in one transaction.
func (s *Store) CreateContribution(ctx context.Context, c models.Contribution, note models.Notification) (models.Contribution, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Contribution{}, err
	}
	defer tx.Rollback()

	const query = `
	INSERT INTO contributions (group_id, user_id, amount_cents, description, proof_image, status, contributed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	RETURNING ` + contributionColumns
	row := tx.QueryRowContext(ctx, query,
		c.GroupID, c.UserID, c.Amount, c.Description, nullable(c.ProofImage), c.Status, time.Now().Unix())
	created, err := scanContribution(row)
	if err != nil {
		return models.Contribution{}, err
	}

	if err := insertNotification(ctx, tx, note); err != nil {
		return models.Contribution{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Contribution{}, err
	}
	return created, nil
}

// GetContribution fetches a contribution by ID.
func (s *Store) GetContribution(ctx context.Context, id int64) (models.Contribution, error) {
	const query = `SELECT ` + contributionColumns + ` FROM contributions WHERE id = ?`
	return scanContribution(s.db.QueryRowContext(ctx, query, id))
}

// ListContributions returns a group's contributions in the given status,
// newest first, joined with contributor details.
func (s *Store) ListContributions(ctx context.Context, groupID int64, status models.ContributionStatus) ([]models.ContributionDetail, error) {
	const query = `
	SELECT c.id, c.group_id, c.user_id, c.amount_cents, c.description,
		COALESCE(c.proof_image, ''), c.status, c.contributed_at,
		u.username, COALESCE(u.profile_picture, '')
	FROM contributions c
	JOIN users u ON u.id = c.user_id
	WHERE c.group_id = ? AND c.status = ?
	ORDER BY c.contributed_at DESC, c.id DESC`

	rows, err := s.db.QueryContext(ctx, query, groupID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContributionDetails(rows, false)
}

// ListRecentContributions returns the latest approved contributions
// across all groups the user belongs to.
func (s *Store) ListRecentContributions(ctx context.Context, userID int64, limit int) ([]models.ContributionDetail, error) {
	const query = `
	SELECT c.id, c.group_id, c.user_id, c.amount_cents, c.description,
		COALESCE(c.proof_image, ''), c.status, c.contributed_at,
		u.username, COALESCE(u.profile_picture, ''), g.name
	FROM contributions c
	JOIN users u ON u.id = c.user_id
	JOIN groups g ON g.id = c.group_id
	WHERE c.status = 'approved' AND c.group_id IN (
		SELECT group_id FROM group_members WHERE user_id = ?
	)
	ORDER BY c.contributed_at DESC, c.id DESC
	LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContributionDetails(rows, true)
}

func collectContributionDetails(rows *sql.Rows, withGroupName bool) ([]models.ContributionDetail, error) {
	var out []models.ContributionDetail
	for rows.Next() {
		var d models.ContributionDetail
		var contributedAt int64
		dest := []any{&d.ID, &d.GroupID, &d.UserID, &d.Amount, &d.Description,
			&d.ProofImage, &d.Status, &contributedAt, &d.Username, &d.ProfilePicture}
		if withGroupName {
			dest = append(dest, &d.GroupName)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		d.ContributedAt = fromUnix(contributedAt)
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateContributionStatus moves a contribution out of pending with a
// conditional update, writing the contributor notification in the same
// transaction. Same contract as UpdateMembershipStatus.
func (s *Store) UpdateContributionStatus(ctx context.Context, id int64, from, to models.ContributionStatus, note models.Notification) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const query = `UPDATE contributions SET status = ? WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		const exists = `SELECT EXISTS (SELECT 1 FROM contributions WHERE id = ?)`
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

// ApprovedTotal sums approved contribution amounts for a group.
func (s *Store) ApprovedTotal(ctx context.Context, groupID int64) (models.Cents, error) {
	const query = `
	SELECT COALESCE(SUM(amount_cents), 0) FROM contributions
	WHERE group_id = ? AND status = 'approved'`
	var total models.Cents
	err := s.db.QueryRowContext(ctx, query, groupID).Scan(&total)
	return total, err
}

// MemberStats aggregates approved contributions per active member,
// largest total first.
func (s *Store) MemberStats(ctx context.Context, groupID int64) ([]models.MemberStat, error) {
	const query = `
	SELECT u.id, u.username, COALESCE(u.profile_picture, ''),
		COALESCE(SUM(c.amount_cents), 0),
		COUNT(c.id),
		MAX(c.contributed_at)
	FROM group_members gm
	JOIN users u ON u.id = gm.user_id
	LEFT JOIN contributions c
		ON c.group_id = gm.group_id AND c.user_id = gm.user_id AND c.status = 'approved'
	WHERE gm.group_id = ? AND gm.status = 'active'
	GROUP BY u.id, u.username, u.profile_picture
	ORDER BY 4 DESC`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.MemberStat
	for rows.Next() {
		var st models.MemberStat
		var last *int64
		if err := rows.Scan(&st.UserID, &st.Username, &st.ProfilePicture,
			&st.Total, &st.Count, &last); err != nil {
			return nil, err
		}
		st.LastDate = fromUnixPtr(last)
		out = append(out, st)
	}
	return out, rows.Err()
}
