package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lead_followup_engine/internal/app"
	idb "lead_followup_engine/internal/infra/database"

	"github.com/stretchr/testify/assert"
)

func TestWriteDomainErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{idb.ErrLeadNotFound, http.StatusNotFound},
		{idb.ErrFollowUpNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: %q", app.ErrInvalidAction, "fax"), http.StatusBadRequest},
		{app.ErrRateLimitExceeded, http.StatusUnprocessableEntity},
		{app.ErrCooldownActive, http.StatusUnprocessableEntity},
		{app.ErrLeadQuietMode, http.StatusConflict},
		{idb.ErrFollowUpTerminal, http.StatusConflict},
		{fmt.Errorf("driver: bad connection"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeDomainError(rec, tc.err)

		assert.Equal(t, tc.status, rec.Code, "error %q", tc.err)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "error")
	}
}
