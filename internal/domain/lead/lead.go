package lead

import (
	"database/sql"
	"time"
)

// Lead represents a prospective customer in the CRM.
type Lead struct {
	ID        string
	Name      string
	Email     sql.NullString // Optional contact channel
	Phone     sql.NullString // Optional contact channel
	QuietMode bool           // Opt-out of all automated outreach
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasEmail reports whether the lead can be reached by email.
func (l *Lead) HasEmail() bool {
	return l.Email.Valid && l.Email.String != ""
}

// HasPhone reports whether the lead can be reached by SMS.
func (l *Lead) HasPhone() bool {
	return l.Phone.Valid && l.Phone.String != ""
}
