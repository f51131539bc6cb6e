package service

import (
	"context"
	"errors"

	"github.com/savetogether/backend/internal/models"
	"github.com/savetogether/backend/internal/storage"
)

// NotificationService lists and acknowledges in-app notifications.
type NotificationService struct {
	store storage.Store
}

// NewNotificationService creates a NotificationService with the given
// storage backend.
func NewNotificationService(store storage.Store) *NotificationService {
	return &NotificationService{store: store}
}

// Unread returns the user's unread notifications, newest first.
func (s *NotificationService) Unread(ctx context.Context, userID int64) ([]models.Notification, error) {
	return s.store.ListUnreadNotifications(ctx, userID)
}

// MarkRead marks a single notification as read. Notifications belonging
// to other users are indistinguishable from missing ones.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	err := s.store.MarkNotificationRead(ctx, id, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
