package sqlite

import (
	"context"

	"github.com/savetogether/backend/internal/models"
)

// ListUnreadNotifications returns the user's unread notifications, newest
// first.
func (s *Store) ListUnreadNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	const query = `
	SELECT id, user_id, COALESCE(group_id, 0), message, is_read, created_at
	FROM notifications
	WHERE user_id = ? AND is_read = 0
	ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		var createdAt int64
		if err := rows.Scan(&n.ID, &n.UserID, &n.GroupID, &n.Message, &n.IsRead, &createdAt); err != nil {
			return nil, err
		}
		n.CreatedAt = fromUnix(createdAt)
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead flips the read flag. The user filter keeps one
// user from acknowledging another's notifications.
func (s *Store) MarkNotificationRead(ctx context.Context, id, userID int64) error {
	const query = `UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`
	res, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}
