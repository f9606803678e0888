package activity

import (
	"context"
	"time"
)

// Repository defines operations on the append-only activity log.
type Repository interface {
	Create(ctx context.Context, a *Activity) error
	// HasActivitySince reports whether any activity exists for the lead
	// strictly after the given time.
	HasActivitySince(ctx context.Context, leadID string, since time.Time) (bool, error)
	// HasWeekendActivity reports whether the lead has ever interacted on a
	// Saturday or Sunday. Used as the weekend-scheduling override.
	HasWeekendActivity(ctx context.Context, leadID string) (bool, error)
	// ListByLead returns the lead's most recent activities, newest first.
	ListByLead(ctx context.Context, leadID string, limit int) ([]*Activity, error)
}
