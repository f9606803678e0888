package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lead_followup_engine/internal/domain/followup"
)

type PostgresFollowUpRepository struct {
	db *sql.DB
}

func NewPostgresFollowUpRepository(db *sql.DB) *PostgresFollowUpRepository {
	return &PostgresFollowUpRepository{db: db}
}

const followUpColumns = `id, suggestion_id, lead_id, action, scheduled_for, sent_at,
cancelled_at, auto_approved, subject, body, created_by, created_at`

func (r *PostgresFollowUpRepository) Create(ctx context.Context, f *followup.ScheduledFollowUp) error {
	query := `INSERT INTO scheduled_follow_ups
               (id, suggestion_id, lead_id, action, scheduled_for, auto_approved, subject, body, created_by, created_at)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.SuggestionID, f.LeadID, f.Action, f.ScheduledFor,
		f.AutoApproved, f.Subject, f.Body, f.CreatedBy, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating scheduled follow-up: %w", err)
	}
	return nil
}

func (r *PostgresFollowUpRepository) GetByID(ctx context.Context, id string) (*followup.ScheduledFollowUp, error) {
	query := `SELECT ` + followUpColumns + ` FROM scheduled_follow_ups WHERE id = $1`
	f := followup.ScheduledFollowUp{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID, &f.SuggestionID, &f.LeadID, &f.Action, &f.ScheduledFor, &f.SentAt,
		&f.CancelledAt, &f.AutoApproved, &f.Subject, &f.Body, &f.CreatedBy, &f.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrFollowUpNotFound
		}
		return nil, fmt.Errorf("error getting scheduled follow-up by ID: %w", err)
	}
	return &f, nil
}

func (r *PostgresFollowUpRepository) ListActiveByLead(ctx context.Context, leadID string) ([]*followup.ScheduledFollowUp, error) {
	query := `SELECT ` + followUpColumns + `
               FROM scheduled_follow_ups
               WHERE lead_id = $1 AND cancelled_at IS NULL
               ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("error querying active follow-ups for lead: %w", err)
	}
	defer rows.Close()
	return scanFollowUps(rows)
}

func (r *PostgresFollowUpRepository) ListDue(ctx context.Context, due time.Time, limit int) ([]*followup.ScheduledFollowUp, error) {
	query := `SELECT ` + followUpColumns + `
               FROM scheduled_follow_ups
               WHERE sent_at IS NULL AND cancelled_at IS NULL AND scheduled_for <= $1
               ORDER BY scheduled_for ASC
               LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, due, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying due follow-ups: %w", err)
	}
	defer rows.Close()
	return scanFollowUps(rows)
}

// MarkSent transitions a pending job to sent. The WHERE clause guarantees a
// terminal job is never transitioned twice, even under overlapping runs.
func (r *PostgresFollowUpRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	query := `UPDATE scheduled_follow_ups SET sent_at = $2
               WHERE id = $1 AND sent_at IS NULL AND cancelled_at IS NULL`
	return r.transition(ctx, query, id, sentAt)
}

// MarkCancelled transitions a pending job to cancelled; cancelling a terminal
// job fails with ErrFollowUpTerminal rather than silently succeeding.
func (r *PostgresFollowUpRepository) MarkCancelled(ctx context.Context, id string, cancelledAt time.Time) error {
	query := `UPDATE scheduled_follow_ups SET cancelled_at = $2
               WHERE id = $1 AND sent_at IS NULL AND cancelled_at IS NULL`
	return r.transition(ctx, query, id, cancelledAt)
}

func (r *PostgresFollowUpRepository) transition(ctx context.Context, query, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("error transitioning scheduled follow-up %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected for follow-up %s: %w", id, err)
	}
	if affected == 0 {
		// Distinguish a terminal job from a missing one.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrFollowUpTerminal
	}
	return nil
}

func (r *PostgresFollowUpRepository) CancelAllPendingForLead(ctx context.Context, leadID string, cancelledAt time.Time) (int64, error) {
	query := `UPDATE scheduled_follow_ups SET cancelled_at = $2
               WHERE lead_id = $1 AND sent_at IS NULL AND cancelled_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, leadID, cancelledAt)
	if err != nil {
		return 0, fmt.Errorf("error cancelling pending follow-ups for lead %s: %w", leadID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading rows affected for lead %s cancellation: %w", leadID, err)
	}
	return affected, nil
}

func scanFollowUps(rows *sql.Rows) ([]*followup.ScheduledFollowUp, error) {
	followUps := make([]*followup.ScheduledFollowUp, 0)
	for rows.Next() {
		f := followup.ScheduledFollowUp{}
		if err := rows.Scan(
			&f.ID, &f.SuggestionID, &f.LeadID, &f.Action, &f.ScheduledFor, &f.SentAt,
			&f.CancelledAt, &f.AutoApproved, &f.Subject, &f.Body, &f.CreatedBy, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning scheduled follow-up row: %w", err)
		}
		followUps = append(followUps, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scheduled follow-up rows: %w", err)
	}
	return followUps, nil
}
