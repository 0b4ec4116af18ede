package storage

import (
	"context"
	"database/sql"
	"fmt"

	"astana/internal/core"
)

func (r *SQLiteRepository) GetSettings(ctx context.Context) (core.Settings, error) {
	var s core.Settings
	var lastBackup sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, foundation_name, address, phone, email, logo_path, active_year, last_backup, auto_backup, created_at, updated_at
		 FROM settings WHERE id = 1`).
		Scan(&s.ID, &s.FoundationName, &s.Address, &s.Phone, &s.Email, &s.LogoPath,
			&s.ActiveYear, &lastBackup, &s.AutoBackup, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	s.LastBackup = lastBackup.String
	return s, nil
}

func (r *SQLiteRepository) UpdateSettings(ctx context.Context, req core.UpdateSettingsRequest) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE settings SET
			foundation_name = COALESCE(?, foundation_name),
			address = COALESCE(?, address),
			phone = COALESCE(?, phone),
			email = COALESCE(?, email),
			logo_path = COALESCE(?, logo_path),
			active_year = COALESCE(?, active_year),
			auto_backup = COALESCE(?, auto_backup),
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = 1`,
		req.FoundationName, req.Address, req.Phone, req.Email, req.LogoPath, req.ActiveYear, req.AutoBackup)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
