package handlers

import (
	"net/http"
	"time"

	"lead_followup_engine/internal/app"
	"lead_followup_engine/internal/domain/followup"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// FollowUpHandler exposes the scheduled-dispatch store: scheduling, single
// and bulk cancellation, and the lead quiet-mode toggle.
type FollowUpHandler struct {
	followUps *app.FollowUpService
	logger    *logrus.Logger
}

func NewFollowUpHandler(followUps *app.FollowUpService, logger *logrus.Logger) *FollowUpHandler {
	return &FollowUpHandler{followUps: followUps, logger: logger}
}

type windowSlotPayload struct {
	Day   int    `json:"day"` // time.Weekday numbering: Sunday = 0
	Block string `json:"block"`
}

type contactWindowPayload struct {
	Primary   windowSlotPayload  `json:"primary"`
	Secondary *windowSlotPayload `json:"secondary,omitempty"`
}

type scheduleRequest struct {
	SuggestionID string                `json:"suggestion_id"`
	LeadID       string                `json:"lead_id"`
	Action       string                `json:"action"`
	SendAt       *time.Time            `json:"send_at,omitempty"`
	Window       *contactWindowPayload `json:"window,omitempty"`
	AutoApproved *bool                 `json:"auto_approved,omitempty"`
	Subject      string                `json:"subject,omitempty"`
	Body         string                `json:"body,omitempty"`
	CreatedBy    string                `json:"created_by,omitempty"`
}

// HandleSchedule creates a pending follow-up. Without an explicit send_at the
// send time is resolved from the lead's contact window and constraints.
func (h *FollowUpHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.LeadID == "" || req.SuggestionID == "" {
		writeError(w, http.StatusBadRequest, "lead_id and suggestion_id are required")
		return
	}

	sendAt := time.Time{}
	if req.SendAt != nil {
		sendAt = *req.SendAt
	} else {
		resolved, err := h.followUps.ResolveSendTimeForLead(r.Context(), req.LeadID, toContactWindow(req.Window))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		sendAt = resolved
	}

	autoApproved := true
	if req.AutoApproved != nil {
		autoApproved = *req.AutoApproved
	}
	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = "api"
	}

	f, err := h.followUps.Schedule(r.Context(), app.ScheduleParams{
		SuggestionID: req.SuggestionID,
		LeadID:       req.LeadID,
		Action:       followup.ActionType(req.Action),
		SendAt:       sendAt,
		AutoApproved: autoApproved,
		Subject:      req.Subject,
		Body:         req.Body,
		CreatedBy:    createdBy,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// HandleCancel cancels one pending follow-up. Cancelling a terminal job is a
// 409, surfacing the caller bug.
func (h *FollowUpHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.followUps.Cancel(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// HandleCancelAllForLead cancels every pending follow-up for a lead.
func (h *FollowUpHandler) HandleCancelAllForLead(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")
	cancelled, err := h.followUps.CancelAllForLead(r.Context(), leadID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"cancelled": cancelled})
}

type quietModeRequest struct {
	QuietMode bool `json:"quiet_mode"`
}

// HandleQuietMode flips a lead's quiet-mode flag; opting in cancels pending
// follow-ups immediately.
func (h *FollowUpHandler) HandleQuietMode(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")
	var req quietModeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.followUps.SetQuietMode(r.Context(), leadID, req.QuietMode); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"quiet_mode": req.QuietMode})
}

func toContactWindow(p *contactWindowPayload) *followup.ContactWindow {
	if p == nil {
		return nil
	}
	window := &followup.ContactWindow{
		Primary: followup.WindowSlot{
			Day:   time.Weekday(p.Primary.Day),
			Block: followup.TimeBlock(p.Primary.Block),
		},
	}
	if p.Secondary != nil {
		window.Secondary = &followup.WindowSlot{
			Day:   time.Weekday(p.Secondary.Day),
			Block: followup.TimeBlock(p.Secondary.Block),
		}
	}
	return window
}
