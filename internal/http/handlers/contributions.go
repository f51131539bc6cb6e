package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/savetogether/backend/internal/http/respond"
	"github.com/savetogether/backend/internal/middleware"
	"github.com/savetogether/backend/internal/models"
	"github.com/savetogether/backend/internal/models/dto"
	"github.com/savetogether/backend/internal/service"
)

// ContributionHandler owns submitting contributions, listing a group's
// history, and the owner's approve/reject decisions.
type ContributionHandler struct {
	contributions *service.ContributionService
}

// NewContributionHandler constructs the handler.
func NewContributionHandler(contributions *service.ContributionService) *ContributionHandler {
	return &ContributionHandler{contributions: contributions}
}

// Register attaches contribution routes to the router.
func (h *ContributionHandler) Register(r chi.Router) {
	r.Post("/api/groups/{groupID}/contributions", h.handleAdd)
	r.Get("/api/groups/{groupID}/contributions", h.handleHistory)
	r.Post("/api/contributions/{contributionID}/approve", h.decide(service.DecisionApprove))
	r.Post("/api/contributions/{contributionID}/reject", h.decide(service.DecisionReject))
}

func (h *ContributionHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}
	var req dto.ContributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	amount, err := models.ParseCents(req.Amount)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "amount must be a decimal like 400.00")
		return
	}

	created, err := h.contributions.Add(r.Context(), groupID, middleware.GetUserID(r.Context()), amount, req.Description, req.ProofImage)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "contribution submitted for review", created)
}

func (h *ContributionHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	history, err := h.contributions.History(r.Context(), groupID, middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "contribution history", history)
}

func (h *ContributionHandler) decide(decision service.Decision) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contributionID, ok := pathID(w, r, "contributionID")
		if !ok {
			return
		}

		err := h.contributions.Decide(r.Context(), contributionID, decision, middleware.GetUserID(r.Context()))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		message := "contribution rejected"
		if decision == service.DecisionApprove {
			message = "contribution approved"
		}
		respond.JSON(w, http.StatusOK, message, nil)
	}
}
