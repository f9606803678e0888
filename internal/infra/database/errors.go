package database

import "fmt"

// Sentinel errors returned by the postgres repositories. Services compare
// against these to distinguish "not found" and terminal-state violations
// from genuine database failures.
var (
	ErrLeadNotFound     = fmt.Errorf("lead not found")
	ErrFollowUpNotFound = fmt.Errorf("scheduled follow-up not found")
	// ErrFollowUpTerminal is returned when a state transition is attempted on
	// a job that has already been sent or cancelled.
	ErrFollowUpTerminal = fmt.Errorf("scheduled follow-up is already sent or cancelled")
	ErrSettingNotFound  = fmt.Errorf("setting not found")
)
