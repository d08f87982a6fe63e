package handlers

import (
	"net/http"

	"internhub/internal/domain/user"
	"internhub/internal/http/middleware"
	"internhub/internal/http/response"
	"internhub/internal/stats"
	"internhub/internal/store"
)

type StatsHandler struct {
	identity    *store.IdentityStore
	engagements *store.EngagementStore
}

func NewStatsHandler(identity *store.IdentityStore, engagements *store.EngagementStore) *StatsHandler {
	return &StatsHandler{identity: identity, engagements: engagements}
}

// Get returns the dashboard aggregate for the caller's role, computed from
// the live collections on every request.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	role, _ := middleware.RoleFromContext(r.Context())

	internships := h.engagements.Internships()
	applications := h.engagements.Applications()

	switch role {
	case user.RoleMentor:
		response.JSON(w, http.StatusOK, stats.ComputeMentorSummary(actorID, internships, applications))
	case user.RoleStudent:
		response.JSON(w, http.StatusOK, stats.ComputeStudentSummary(actorID, internships, applications))
	default:
		response.JSON(w, http.StatusOK, stats.ComputeOverview(h.identity.Users(), internships, applications))
	}
}
