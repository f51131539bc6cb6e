package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/savetogether/backend/internal/http/respond"
	"github.com/savetogether/backend/internal/middleware"
	"github.com/savetogether/backend/internal/models/dto"
	"github.com/savetogether/backend/internal/service"
)

// GroupHandler owns group creation, dashboards, detail pages, joining,
// progress, per-member stats, and the CSV export.
type GroupHandler struct {
	groups        *service.GroupService
	memberships   *service.MembershipService
	contributions *service.ContributionService
}

// NewGroupHandler constructs the handler.
func NewGroupHandler(groups *service.GroupService, memberships *service.MembershipService, contributions *service.ContributionService) *GroupHandler {
	return &GroupHandler{groups: groups, memberships: memberships, contributions: contributions}
}

// Register attaches group routes to the router.
func (h *GroupHandler) Register(r chi.Router) {
	r.Post("/api/groups", h.handleCreate)
	r.Get("/api/groups", h.handleDashboard)
	r.Post("/api/groups/join", h.handleJoin)
	r.Get("/api/groups/{groupID}", h.handleDetail)
	r.Get("/api/groups/{groupID}/progress", h.handleProgress)
	r.Get("/api/groups/{groupID}/stats", h.handleStats)
	r.Get("/api/groups/{groupID}/export", h.handleExport)
}

func (h *GroupHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	group, err := h.groups.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "group created", group)
}

func (h *GroupHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	groups, err := h.groups.Dashboard(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	recent, err := h.contributions.Recent(r.Context(), userID, 10)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, "dashboard", map[string]any{
		"groups":               groups,
		"recent_contributions": recent,
	})
}

func (h *GroupHandler) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req dto.JoinGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	membership, err := h.memberships.RequestJoin(r.Context(), middleware.GetUserID(r.Context()), req.InviteCode)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "join request submitted", membership)
}

func (h *GroupHandler) handleDetail(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	detail, err := h.groups.Detail(r.Context(), groupID, middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "group detail", detail)
}

func (h *GroupHandler) handleProgress(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	progress, err := h.groups.Progress(r.Context(), groupID, middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "group progress", progress)
}

func (h *GroupHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	stats, err := h.contributions.MemberStats(r.Context(), groupID, middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "member stats", stats)
}

func (h *GroupHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	group, contributions, err := h.groups.ExportData(r.Context(), groupID, middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", group.Name+"_export.csv"))

	deadline := "None"
	if group.Deadline != nil {
		deadline = group.Deadline.Format("2006-01-02")
	}
	fmt.Fprintf(w, "Group: %s\n", group.Name)
	fmt.Fprintf(w, "Target Amount: %s\n", group.Target)
	fmt.Fprintf(w, "Deadline: %s\n\n", deadline)

	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"Amount", "Description", "Date", "Contributor", "Status"})
	for _, c := range contributions {
		_ = writer.Write([]string{
			c.Amount.String(),
			c.Description,
			c.ContributedAt.Format("2006-01-02"),
			c.Username,
			string(c.Status),
		})
	}
	writer.Flush()
}
