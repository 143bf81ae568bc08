package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Platform Settings Methods
// -----------------------------------------------------------------------------

const platformSettingColumns = `id, key, display_name, description, category, setting_type,
	string_value, integer_value, decimal_value::text, boolean_value,
	is_active, created_at, updated_at`

func scanPlatformSetting(row pgx.Row) (*PlatformSetting, error) {
	var s PlatformSetting
	err := row.Scan(&s.ID, &s.Key, &s.DisplayName, &s.Description, &s.Category,
		&s.SettingType, &s.StringValue, &s.IntegerValue, &s.DecimalValue,
		&s.BooleanValue, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetPlatformSetting retrieves a setting by key. Returns nil when no such
// setting exists.
func (db *DB) GetPlatformSetting(ctx context.Context, key string) (*PlatformSetting, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+platformSettingColumns+` FROM platform_settings WHERE key = $1`, key)
	s, err := scanPlatformSetting(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get platform setting %s: %w", key, err)
	}
	return s, nil
}

// CreatePlatformSetting inserts a new setting row.
func (db *DB) CreatePlatformSetting(ctx context.Context, s *PlatformSetting) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO platform_settings
		 (key, display_name, description, category, setting_type,
		  string_value, integer_value, decimal_value, boolean_value, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9, $10)`,
		s.Key, s.DisplayName, s.Description, s.Category, s.SettingType,
		s.StringValue, s.IntegerValue, s.DecimalValue, s.BooleanValue, s.IsActive)
	if err != nil {
		return fmt.Errorf("failed to create platform setting %s: %w", s.Key, err)
	}
	return nil
}

// UpdatePlatformSetting overwrites an existing setting row by key, keeping
// its identity and created_at.
func (db *DB) UpdatePlatformSetting(ctx context.Context, s *PlatformSetting) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE platform_settings
		 SET display_name = $2, description = $3, category = $4, setting_type = $5,
		     string_value = $6, integer_value = $7, decimal_value = $8::numeric,
		     boolean_value = $9, is_active = $10, updated_at = NOW()
		 WHERE key = $1`,
		s.Key, s.DisplayName, s.Description, s.Category, s.SettingType,
		s.StringValue, s.IntegerValue, s.DecimalValue, s.BooleanValue, s.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update platform setting %s: %w", s.Key, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("platform setting %s not found", s.Key)
	}
	return nil
}

// ListPlatformSettings returns all settings ordered by category then key.
func (db *DB) ListPlatformSettings(ctx context.Context) ([]PlatformSetting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+platformSettingColumns+` FROM platform_settings ORDER BY category, key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list platform settings: %w", err)
	}
	defer rows.Close()

	var settings []PlatformSetting
	for rows.Next() {
		s, err := scanPlatformSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan platform setting: %w", err)
		}
		settings = append(settings, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read platform settings: %w", err)
	}
	return settings, nil
}
