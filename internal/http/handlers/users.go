package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/savetogether/backend/internal/http/respond"
	"github.com/savetogether/backend/internal/middleware"
	"github.com/savetogether/backend/internal/models/dto"
	"github.com/savetogether/backend/internal/service"
)

// UserHandler owns profile updates and the premium upgrade.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler constructs the handler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register attaches profile routes to the router.
func (h *UserHandler) Register(r chi.Router) {
	r.Patch("/api/me", h.handleUpdateProfile)
	r.Post("/api/me/upgrade", h.handleUpgrade)
}

func (h *UserHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), middleware.GetUserID(r.Context()), req.Username, req.Email, req.ProfilePicture)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "profile updated", updated)
}

func (h *UserHandler) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Upgrade(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		respondServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "account upgraded to premium", nil)
}
