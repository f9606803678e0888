package handlers

import (
	"net/http"
	"strconv"
	"time"

	"lead_followup_engine/internal/domain/activity"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const defaultActivityPageSize = 50

// ActivityHandler serves a lead's activity history, the engine's own
// system-generated entries included.
type ActivityHandler struct {
	activities activity.Repository
	logger     *logrus.Logger
}

func NewActivityHandler(activities activity.Repository, logger *logrus.Logger) *ActivityHandler {
	return &ActivityHandler{activities: activities, logger: logger}
}

type activityResponse struct {
	ID                string    `json:"id"`
	Type              string    `json:"type"`
	Subject           string    `json:"subject,omitempty"`
	IsSystemGenerated bool      `json:"is_system_generated"`
	CreatedAt         time.Time `json:"created_at"`
}

// HandleListForLead returns the lead's most recent activities, newest first.
func (h *ActivityHandler) HandleListForLead(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	limit := defaultActivityPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	activities, err := h.activities.ListByLead(r.Context(), leadID, limit)
	if err != nil {
		h.logger.Errorf("Failed to list activities for lead %s: %v", leadID, err)
		writeError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}

	out := make([]activityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, activityResponse{
			ID:                a.ID,
			Type:              a.Type,
			Subject:           a.Subject.String,
			IsSystemGenerated: a.IsSystemGenerated,
			CreatedAt:         a.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
