package lead

import (
	"context"
	"time"
)

// Repository defines the read/update operations the engine needs on leads.
// The CRM owns the rest of the lead lifecycle.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Lead, error)
	// ListInactive returns leads created before cutoff whose last update is
	// also before cutoff, ordered by last update ascending.
	ListInactive(ctx context.Context, cutoff time.Time) ([]*Lead, error)
	SetQuietMode(ctx context.Context, id string, quiet bool) error
}
