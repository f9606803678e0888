package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lead_followup_engine/internal/domain/demo"
)

type PostgresDemoRepository struct {
	db *sql.DB
}

func NewPostgresDemoRepository(db *sql.DB) *PostgresDemoRepository {
	return &PostgresDemoRepository{db: db}
}

func (r *PostgresDemoRepository) ListUnviewedSentBefore(ctx context.Context, sentBefore time.Time) ([]*demo.Demo, error) {
	query := `SELECT id, lead_id, sent_at, first_viewed_at, last_viewed_at, created_at
               FROM demos
               WHERE lead_id IS NOT NULL
                 AND sent_at IS NOT NULL
                 AND first_viewed_at IS NULL
                 AND sent_at < $1
               ORDER BY sent_at ASC`
	rows, err := r.db.QueryContext(ctx, query, sentBefore)
	if err != nil {
		return nil, fmt.Errorf("error querying unviewed demos: %w", err)
	}
	defer rows.Close()
	return scanDemos(rows)
}

func (r *PostgresDemoRepository) ListViewedBefore(ctx context.Context, viewedBefore time.Time) ([]*demo.Demo, error) {
	query := `SELECT id, lead_id, sent_at, first_viewed_at, last_viewed_at, created_at
               FROM demos
               WHERE lead_id IS NOT NULL
                 AND first_viewed_at IS NOT NULL
                 AND first_viewed_at < $1
               ORDER BY first_viewed_at ASC`
	rows, err := r.db.QueryContext(ctx, query, viewedBefore)
	if err != nil {
		return nil, fmt.Errorf("error querying viewed demos: %w", err)
	}
	defer rows.Close()
	return scanDemos(rows)
}

func scanDemos(rows *sql.Rows) ([]*demo.Demo, error) {
	demos := make([]*demo.Demo, 0)
	for rows.Next() {
		d := demo.Demo{}
		if err := rows.Scan(&d.ID, &d.LeadID, &d.SentAt, &d.FirstViewedAt, &d.LastViewedAt, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning demo row: %w", err)
		}
		demos = append(demos, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating demo rows: %w", err)
	}
	return demos, nil
}
