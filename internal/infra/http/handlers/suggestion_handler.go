package handlers

import (
	"net/http"
	"time"

	"lead_followup_engine/internal/app"
	"lead_followup_engine/internal/domain/followup"
	"lead_followup_engine/internal/infra/metrics"

	"github.com/go-chi/chi/v5"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

const suggestionCacheKey = "suggestions"

// SuggestionHandler serves the suggestion list and the session's auto-send
// preference toggles. Generation results are cached briefly since the
// computation walks the full demo and activity history.
type SuggestionHandler struct {
	suggestions *app.SuggestionService
	followUps   *app.FollowUpService
	prefs       *app.AutoSendPreferences
	cache       *gocache.Cache
	logger      *logrus.Logger
}

func NewSuggestionHandler(
	suggestions *app.SuggestionService,
	followUps *app.FollowUpService,
	prefs *app.AutoSendPreferences,
	logger *logrus.Logger,
) *SuggestionHandler {
	return &SuggestionHandler{
		suggestions: suggestions,
		followUps:   followUps,
		prefs:       prefs,
		cache:       gocache.New(time.Minute, 5*time.Minute),
		logger:      logger,
	}
}

// HandleList returns the current top suggestions. When the session has
// auto-send active, approved suggestions are scheduled as a side effect.
func (h *SuggestionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.cache.Get(suggestionCacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	suggs, err := h.suggestions.GenerateSuggestions(r.Context())
	if err != nil {
		h.logger.Errorf("Suggestion generation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to generate suggestions")
		return
	}
	metrics.RecordSuggestions(len(suggs))

	if h.prefs.Active() {
		h.autoScheduleApproved(r, suggs)
	}

	h.cache.Set(suggestionCacheKey, suggs, gocache.DefaultExpiration)
	writeJSON(w, http.StatusOK, suggs)
}

func (h *SuggestionHandler) autoScheduleApproved(r *http.Request, suggs []followup.Suggestion) {
	for _, sugg := range suggs {
		if !h.prefs.IsApproved(sugg.ID) {
			continue
		}
		if _, err := h.followUps.AutoSchedule(r.Context(), sugg); err != nil {
			// Rate-limit, cooldown and quiet-mode rejections are expected
			// here; they just mean the suggestion stays un-scheduled.
			h.logger.Warnf("Auto-schedule of suggestion %s skipped: %v", sugg.ID, err)
			continue
		}
		h.prefs.Revoke(sugg.ID)
		h.cache.Delete(suggestionCacheKey)
	}
}

// HandleGetPrefs returns the session's auto-send preference snapshot.
func (h *SuggestionHandler) HandleGetPrefs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.prefs.Snapshot())
}

type prefsToggleRequest struct {
	Enabled *bool `json:"enabled,omitempty"`
	Paused  *bool `json:"paused,omitempty"`
}

// HandleUpdatePrefs toggles the enable and pause flags.
func (h *SuggestionHandler) HandleUpdatePrefs(w http.ResponseWriter, r *http.Request) {
	var req prefsToggleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Enabled != nil {
		h.prefs.SetEnabled(*req.Enabled)
	}
	if req.Paused != nil {
		h.prefs.SetPaused(*req.Paused)
	}
	writeJSON(w, http.StatusOK, h.prefs.Snapshot())
}

// HandleApprove marks one suggestion for auto-scheduling.
func (h *SuggestionHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "suggestionId")
	h.prefs.Approve(id)
	writeJSON(w, http.StatusOK, h.prefs.Snapshot())
}

// HandleRevoke removes one suggestion from the auto-schedule set.
func (h *SuggestionHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "suggestionId")
	h.prefs.Revoke(id)
	writeJSON(w, http.StatusOK, h.prefs.Snapshot())
}

// HandleDisclaimer records that the first-use disclaimer was shown.
func (h *SuggestionHandler) HandleDisclaimer(w http.ResponseWriter, r *http.Request) {
	first := h.prefs.MarkDisclaimerSeen()
	writeJSON(w, http.StatusOK, map[string]bool{"first_time": first})
}
