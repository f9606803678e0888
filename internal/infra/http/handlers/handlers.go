package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"lead_followup_engine/internal/app"
	idb "lead_followup_engine/internal/infra/database"
)

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps known engine errors onto HTTP statuses. Validation
// and terminal-state errors must reach the caller, not be swallowed.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, idb.ErrLeadNotFound), errors.Is(err, idb.ErrFollowUpNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrInvalidAction):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrRateLimitExceeded), errors.Is(err, app.ErrCooldownActive):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, app.ErrLeadQuietMode), errors.Is(err, idb.ErrFollowUpTerminal):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
