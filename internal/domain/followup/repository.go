package followup

import (
	"context"
	"time"
)

// Repository defines persistence for ScheduledFollowUp jobs.
//
// MarkSent and MarkCancelled are conditional transitions: they only apply to
// a job that is still pending and fail with the store's terminal-state error
// otherwise. That is what makes a send exactly-once even if two worker runs
// overlap.
type Repository interface {
	Create(ctx context.Context, f *ScheduledFollowUp) error
	GetByID(ctx context.Context, id string) (*ScheduledFollowUp, error)
	// ListActiveByLead returns all non-cancelled (pending or sent) jobs for a
	// lead. Input to the weekly-cap and cooldown checks.
	ListActiveByLead(ctx context.Context, leadID string) ([]*ScheduledFollowUp, error)
	// ListDue returns pending jobs with scheduled_for <= due, oldest first,
	// capped at limit.
	ListDue(ctx context.Context, due time.Time, limit int) ([]*ScheduledFollowUp, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	MarkCancelled(ctx context.Context, id string, cancelledAt time.Time) error
	// CancelAllPendingForLead cancels every still-pending job for a lead and
	// returns how many were cancelled.
	CancelAllPendingForLead(ctx context.Context, leadID string, cancelledAt time.Time) (int64, error)
}
