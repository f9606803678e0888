package demo

import (
	"database/sql"
	"time"
)

// Demo is a personalized artifact sent to a lead. View timestamps are
// updated by an external viewing event; everything else is immutable.
type Demo struct {
	ID            string
	LeadID        sql.NullString // Demos can exist before being tied to a lead
	SentAt        sql.NullTime
	FirstViewedAt sql.NullTime
	LastViewedAt  sql.NullTime
	CreatedAt     time.Time
}
