package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/savetogether/backend/internal/http/respond"
	"github.com/savetogether/backend/internal/middleware"
	"github.com/savetogether/backend/internal/service"
)

// MembershipHandler owns the owner's approve/reject decisions on join
// requests and the request review list.
type MembershipHandler struct {
	memberships *service.MembershipService
}

// NewMembershipHandler constructs the handler.
func NewMembershipHandler(memberships *service.MembershipService) *MembershipHandler {
	return &MembershipHandler{memberships: memberships}
}

// Register attaches membership routes to the router.
func (h *MembershipHandler) Register(r chi.Router) {
	r.Get("/api/groups/{groupID}/requests", h.handleRequests)
	r.Post("/api/memberships/{membershipID}/approve", h.decide(service.DecisionApprove))
	r.Post("/api/memberships/{membershipID}/reject", h.decide(service.DecisionReject))
}

func (h *MembershipHandler) handleRequests(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	pending, rejected, err := h.memberships.PendingAndRejected(r.Context(), groupID, middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "join requests", map[string]any{
		"pending":  pending,
		"rejected": rejected,
	})
}

func (h *MembershipHandler) decide(decision service.Decision) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		membershipID, ok := pathID(w, r, "membershipID")
		if !ok {
			return
		}

		err := h.memberships.Decide(r.Context(), membershipID, decision, middleware.GetUserID(r.Context()))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		message := "membership rejected"
		if decision == service.DecisionApprove {
			message = "membership approved"
		}
		respond.JSON(w, http.StatusOK, message, nil)
	}
}
