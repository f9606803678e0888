package followup

import (
	"database/sql"
	"time"
)

// ActionType is the outreach channel a scheduled follow-up uses.
type ActionType string

const (
	ActionEmail        ActionType = "email"
	ActionSMS          ActionType = "sms"
	ActionCallReminder ActionType = "call_reminder"
)

// Valid reports whether the action type is one the dispatcher knows.
func (a ActionType) Valid() bool {
	switch a {
	case ActionEmail, ActionSMS, ActionCallReminder:
		return true
	}
	return false
}

// ScheduledFollowUp is a durable outreach job. It is in exactly one of three
// states: pending (sent_at and cancelled_at both null), sent, or cancelled.
// Sent and cancelled are terminal; a terminal job is never mutated again and
// never deleted (it is retained as an audit record).
type ScheduledFollowUp struct {
	ID           string
	SuggestionID string
	LeadID       string
	Action       ActionType
	ScheduledFor time.Time
	SentAt       sql.NullTime
	CancelledAt  sql.NullTime
	AutoApproved bool
	Subject      sql.NullString
	Body         sql.NullString
	CreatedBy    string
	CreatedAt    time.Time
}

// IsTerminal reports whether the job has been sent or cancelled.
func (f *ScheduledFollowUp) IsTerminal() bool {
	return f.SentAt.Valid || f.CancelledAt.Valid
}

// IsPending reports whether the job is still waiting to be dispatched.
func (f *ScheduledFollowUp) IsPending() bool {
	return !f.IsTerminal()
}
