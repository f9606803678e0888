package activity

import (
	"database/sql"
	"time"
)

// Activity is an immutable, append-only log entry tied to a lead, recording
// any interaction (call, note, email). The dispatch worker appends one
// system-generated entry per successful automated send.
type Activity struct {
	ID                string
	LeadID            string
	Type              string
	Subject           sql.NullString
	IsSystemGenerated bool
	CreatedAt         time.Time
}
