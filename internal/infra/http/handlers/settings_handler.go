package handlers

import (
	"net/http"

	"lead_followup_engine/internal/domain/settings"
	idb "lead_followup_engine/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// SettingsHandler exposes the global auto-send kill-switch to operators.
type SettingsHandler struct {
	settingsRepo settings.Repository
	logger       *logrus.Logger
}

func NewSettingsHandler(sr settings.Repository, logger *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{settingsRepo: sr, logger: logger}
}

func (h *SettingsHandler) HandleGetAutoSend(w http.ResponseWriter, r *http.Request) {
	enabled, err := h.settingsRepo.GetBool(r.Context(), settings.KeyAutoSendEnabled)
	if err != nil {
		if err == idb.ErrSettingNotFound {
			// Kill-switch row missing means dispatch is off.
			writeJSON(w, http.StatusOK, map[string]bool{"enabled": false})
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read auto-send setting")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": enabled})
}

type autoSendRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *SettingsHandler) HandleSetAutoSend(w http.ResponseWriter, r *http.Request) {
	var req autoSendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.settingsRepo.SetBool(r.Context(), settings.KeyAutoSendEnabled, req.Enabled); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update auto-send setting")
		return
	}
	h.logger.Infof("Auto-send kill-switch set to %t", req.Enabled)
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": req.Enabled})
}
