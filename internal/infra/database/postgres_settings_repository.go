package database

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresSettingsRepository stores operator-settable flags, most notably the
// global auto-send kill-switch, in the app_settings table.
type PostgresSettingsRepository struct {
	db *sql.DB
}

func NewPostgresSettingsRepository(db *sql.DB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

func (r *PostgresSettingsRepository) GetBool(ctx context.Context, key string) (bool, error) {
	query := `SELECT value FROM app_settings WHERE key = $1`
	var value bool
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, ErrSettingNotFound
		}
		return false, fmt.Errorf("error getting setting %q: %w", key, err)
	}
	return value, nil
}

func (r *PostgresSettingsRepository) SetBool(ctx context.Context, key string, value bool) error {
	query := `INSERT INTO app_settings (key, value) VALUES ($1, $2)
               ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("error setting %q: %w", key, err)
	}
	return nil
}
