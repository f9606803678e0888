package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lead_followup_engine/internal/domain/activity"
)

type PostgresActivityRepository struct {
	db *sql.DB
}

func NewPostgresActivityRepository(db *sql.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

func (r *PostgresActivityRepository) Create(ctx context.Context, a *activity.Activity) error {
	query := `INSERT INTO activities (id, lead_id, type, subject, is_system_generated, created_at)
               VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.LeadID, a.Type, a.Subject, a.IsSystemGenerated, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating activity: %w", err)
	}
	return nil
}

func (r *PostgresActivityRepository) HasActivitySince(ctx context.Context, leadID string, since time.Time) (bool, error) {
	query := `SELECT EXISTS (
                   SELECT 1 FROM activities WHERE lead_id = $1 AND created_at > $2
               )`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, leadID, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking activity since %s for lead %s: %w", since.Format(time.RFC3339), leadID, err)
	}
	return exists, nil
}

func (r *PostgresActivityRepository) ListByLead(ctx context.Context, leadID string, limit int) ([]*activity.Activity, error) {
	query := `SELECT id, lead_id, type, subject, is_system_generated, created_at
               FROM activities
               WHERE lead_id = $1
               ORDER BY created_at DESC
               LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, leadID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying activities for lead %s: %w", leadID, err)
	}
	defer rows.Close()

	activities := make([]*activity.Activity, 0)
	for rows.Next() {
		a := activity.Activity{}
		if err := rows.Scan(&a.ID, &a.LeadID, &a.Type, &a.Subject, &a.IsSystemGenerated, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning activity row: %w", err)
		}
		activities = append(activities, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return activities, nil
}

func (r *PostgresActivityRepository) HasWeekendActivity(ctx context.Context, leadID string) (bool, error) {
	// ISODOW: Monday = 1 .. Sunday = 7.
	query := `SELECT EXISTS (
                   SELECT 1 FROM activities
                   WHERE lead_id = $1 AND EXTRACT(ISODOW FROM created_at) IN (6, 7)
               )`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, leadID).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking weekend activity for lead %s: %w", leadID, err)
	}
	return exists, nil
}
