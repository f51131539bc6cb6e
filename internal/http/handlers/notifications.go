package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/savetogether/backend/internal/http/respond"
	"github.com/savetogether/backend/internal/middleware"
	"github.com/savetogether/backend/internal/service"
)

// NotificationHandler lists unread notifications and marks them read.
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// Register attaches notification routes to the router.
func (h *NotificationHandler) Register(r chi.Router) {
	r.Get("/api/notifications", h.handleList)
	r.Post("/api/notifications/{notificationID}/read", h.handleMarkRead)
}

func (h *NotificationHandler) handleList(w http.ResponseWriter, r *http.Request) {
	unread, err := h.notifications.Unread(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "unread notifications", unread)
}

func (h *NotificationHandler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID, ok := pathID(w, r, "notificationID")
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(r.Context(), notificationID, middleware.GetUserID(r.Context())); err != nil {
		respondServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "notification marked read", nil)
}
