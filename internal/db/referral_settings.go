package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Referral Settings Methods
// -----------------------------------------------------------------------------

// UpsertReferralSetting creates or updates a referral setting by key,
// mirroring the admin service's update-or-create semantics. Returns true when
// a new row was created.
func (db *DB) UpsertReferralSetting(ctx context.Context, key, value, description string) (bool, error) {
	var created bool
	err := db.pool.QueryRow(ctx,
		`INSERT INTO referral_settings (key, value, description)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE
		 SET value = $2, description = $3, updated_at = NOW()
		 RETURNING (xmax = 0)`,
		key, value, description,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("failed to upsert referral setting %s: %w", key, err)
	}
	return created, nil
}

// GetReferralSetting retrieves an active referral setting by key. Returns nil
// when no such setting exists.
func (db *DB) GetReferralSetting(ctx context.Context, key string) (*ReferralSetting, error) {
	var s ReferralSetting
	err := db.pool.QueryRow(ctx,
		`SELECT id, key, value, description, is_active, created_at, updated_at
		 FROM referral_settings WHERE key = $1 AND is_active`,
		key,
	).Scan(&s.ID, &s.Key, &s.Value, &s.Description, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get referral setting %s: %w", key, err)
	}
	return &s, nil
}

// ListReferralSettings returns all referral settings ordered by key.
func (db *DB) ListReferralSettings(ctx context.Context) ([]ReferralSetting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, key, value, description, is_active, created_at, updated_at
		 FROM referral_settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list referral settings: %w", err)
	}
	defer rows.Close()

	var settings []ReferralSetting
	for rows.Next() {
		var s ReferralSetting
		if err := rows.Scan(&s.ID, &s.Key, &s.Value, &s.Description, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan referral setting: %w", err)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read referral settings: %w", err)
	}
	return settings, nil
}
