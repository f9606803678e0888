package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lead_followup_engine/internal/domain/lead"
)

type PostgresLeadRepository struct {
	db *sql.DB
}

func NewPostgresLeadRepository(db *sql.DB) *PostgresLeadRepository {
	return &PostgresLeadRepository{db: db}
}

func (r *PostgresLeadRepository) GetByID(ctx context.Context, id string) (*lead.Lead, error) {
	query := `SELECT id, name, email, phone, quiet_mode, created_at, updated_at
               FROM leads WHERE id = $1`
	l := lead.Lead{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.QuietMode, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("error getting lead by ID: %w", err)
	}
	return &l, nil
}

func (r *PostgresLeadRepository) ListInactive(ctx context.Context, cutoff time.Time) ([]*lead.Lead, error) {
	query := `SELECT id, name, email, phone, quiet_mode, created_at, updated_at
               FROM leads
               WHERE created_at < $1 AND updated_at < $1
               ORDER BY updated_at ASC`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("error querying inactive leads: %w", err)
	}
	defer rows.Close()

	leads := make([]*lead.Lead, 0)
	for rows.Next() {
		l := lead.Lead{}
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.QuietMode, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning lead row: %w", err)
		}
		leads = append(leads, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lead rows: %w", err)
	}
	return leads, nil
}

func (r *PostgresLeadRepository) SetQuietMode(ctx context.Context, id string, quiet bool) error {
	query := `UPDATE leads SET quiet_mode = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, quiet)
	if err != nil {
		return fmt.Errorf("error updating lead quiet mode: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected for quiet mode update: %w", err)
	}
	if affected == 0 {
		return ErrLeadNotFound
	}
	return nil
}
