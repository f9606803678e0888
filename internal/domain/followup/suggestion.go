package followup

import "time"

// ReasonCode identifies which rule produced a suggestion.
type ReasonCode string

const (
	ReasonDemoNotViewed     ReasonCode = "demo_not_viewed"
	ReasonDemoViewedNoReply ReasonCode = "demo_viewed_no_reply"
	ReasonLeadInactive      ReasonCode = "lead_inactive"
)

// Suggestion is an ephemeral outreach candidate computed from lead, demo and
// activity history. It is never persisted; approving one creates a
// ScheduledFollowUp that references it by SuggestionID.
type Suggestion struct {
	// ID is synthetic and deterministic: "<reason>:<source record id>".
	ID      string
	LeadID  string
	Reason  ReasonCode
	Text    string
	Urgency int // Higher surfaces first
	// AnchorAt is the event time that triggered the suggestion (demo sent,
	// demo first viewed, or lead last updated). Older anchors rank first
	// within equal urgency.
	AnchorAt time.Time
}
