package demo

import (
	"context"
	"time"
)

// Repository defines the read queries suggestion generation runs against demos.
// Both queries only return demos that are attached to a lead.
type Repository interface {
	// ListUnviewedSentBefore returns demos sent before sentBefore that have
	// never been viewed, ordered by sent time ascending.
	ListUnviewedSentBefore(ctx context.Context, sentBefore time.Time) ([]*Demo, error)
	// ListViewedBefore returns demos first viewed before viewedBefore,
	// ordered by first-view time ascending.
	ListViewedBefore(ctx context.Context, viewedBefore time.Time) ([]*Demo, error)
}
