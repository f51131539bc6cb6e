package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/savetogether/backend/internal/models"
	"github.com/savetogether/backend/internal/storage"
)

const contributionColumns = `id, group_id, user_id, amount_cents, description,
	COALESCE(proof_image, ''), status, contributed_at`

func scanContribution(row pgx.Row) (models.Contribution, error) {
	var c models.Contribution
	err := row.Scan(&c.ID, &c.GroupID, &c.UserID, &c.Amount, &c.Description,
		&c.ProofImage, &c.Status, &c.ContributedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Contribution{}, storage.ErrNotFound
		}
		return models.Contribution{}, err
	}
	return c, nil
}

// CreateContribution inserts a pending contribution and the owner
// notification in one transaction.
func (s *Store) CreateContribution(ctx context.Context, c models.Contribution, note models.Notification) (models.Contribution, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Contribution{}, err
	}
	defer tx.Rollback(ctx)

	const query = `
	INSERT INTO contributions (group_id, user_id, amount_cents, description, proof_image, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING ` + contributionColumns
	row := tx.QueryRow(ctx, query,
		c.GroupID, c.UserID, c.Amount, c.Description, nullable(c.ProofImage), c.Status)
	created, err := scanContribution(row)
	if err != nil {
		return models.Contribution{}, err
	}

	if err := insertNotification(ctx, tx, note); err != nil {
		return models.Contribution{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Contribution{}, err
	}
	return created, nil
}

// GetContribution fetches a contribution by ID.
func (s *Store) GetContribution(ctx context.Context, id int64) (models.Contribution, error) {
	const query = `SELECT ` + contributionColumns + ` FROM contributions WHERE id = $1`
	return scanContribution(s.pool.QueryRow(ctx, query, id))
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
	WHERE c.group_id = $1 AND c.status = $2
	ORDER BY c.contributed_at DESC`

	rows, err := s.pool.Query(ctx, query, groupID, status)
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
		SELECT group_id FROM group_members WHERE user_id = $1
	)
	ORDER BY c.contributed_at DESC
	LIMIT $2`

	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContributionDetails(rows, true)
}

func collectContributionDetails(rows pgx.Rows, withGroupName bool) ([]models.ContributionDetail, error) {
	var out []models.ContributionDetail
	for rows.Next() {
		var d models.ContributionDetail
		dest := []any{&d.ID, &d.GroupID, &d.UserID, &d.Amount, &d.Description,
			&d.ProofImage, &d.Status, &d.ContributedAt, &d.Username, &d.ProfilePicture}
		if withGroupName {
			dest = append(dest, &d.GroupName)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateContributionStatus moves a contribution out of pending with a
// conditional update, writing the contributor notification in the same
// transaction. Same contract as UpdateMembershipStatus.
func (s *Store) UpdateContributionStatus(ctx context.Context, id int64, from, to models.ContributionStatus, note models.Notification) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const query = `UPDATE contributions SET status = $3 WHERE id = $1 AND status = $2`
	tag, err := tx.Exec(ctx, query, id, from, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.GetContribution(ctx, id); errors.Is(err, storage.ErrNotFound) {
			return storage.ErrNotFound
		}
		return storage.ErrConflict
	}

	if err := insertNotification(ctx, tx, note); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ApprovedTotal sums approved contribution amounts for a group.
func (s *Store) ApprovedTotal(ctx context.Context, groupID int64) (models.Cents, error) {
	const query = `
	SELECT COALESCE(SUM(amount_cents), 0) FROM contributions
	WHERE group_id = $1 AND status = 'approved'`
	var total models.Cents
	err := s.pool.QueryRow(ctx, query, groupID).Scan(&total)
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
	WHERE gm.group_id = $1 AND gm.status = 'active'
	GROUP BY u.id, u.username, u.profile_picture
	ORDER BY 4 DESC`

	rows, err := s.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.MemberStat
	for rows.Next() {
		var st models.MemberStat
		if err := rows.Scan(&st.UserID, &st.Username, &st.ProfilePicture,
			&st.Total, &st.Count, &st.LastDate); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
