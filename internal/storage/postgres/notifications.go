package postgres

import (
	"context"

	"github.com/savetogether/backend/internal/models"
	"github.com/savetogether/backend/internal/storage"
)

// ListUnreadNotifications returns the user's unread notifications, newest
// first.
func (s *Store) ListUnreadNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	const query = `
	SELECT id, user_id, COALESCE(group_id, 0), message, is_read, created_at
	FROM notifications
	WHERE user_id = $1 AND is_read = FALSE
	ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.GroupID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead flips the read flag. The user filter keeps one
// user from acknowledging another's notifications.
func (s *Store) MarkNotificationRead(ctx context.Context, id, userID int64) error {
	const query = `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	tag, err := s.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
