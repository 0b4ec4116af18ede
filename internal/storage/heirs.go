package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"astana/internal/core"
)

func (r *SQLiteRepository) GetHeirsByGrave(ctx context.Context, graveID int64) ([]core.Heir, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, grave_id, order_number, full_name, phone_number, relationship, address, is_primary, created_at, updated_at
		 FROM heirs WHERE grave_id = ? ORDER BY order_number`, graveID)
	if err != nil {
		return nil, fmt.Errorf("query heirs: %w", err)
	}
	defer rows.Close()

	var heirs []core.Heir
	for rows.Next() {
		var h core.Heir
		if err := rows.Scan(&h.ID, &h.GraveID, &h.OrderNumber, &h.FullName, &h.PhoneNumber,
			&h.Relationship, &h.Address, &h.IsPrimary, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan heir: %w", err)
		}
		heirs = append(heirs, h)
	}
	return heirs, rows.Err()
}

// ReplaceHeirs swaps the full heir set of a grave in one transaction
// (delete-and-recreate, matching how the frontend edits the heir form).
func (r *SQLiteRepository) ReplaceHeirs(ctx context.Context, graveID int64, heirs []core.CreateHeirRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM heirs WHERE grave_id = ?", graveID); err != nil {
		return fmt.Errorf("delete heirs: %w", err)
	}
	for _, heir := range heirs {
		if err := insertHeir(ctx, tx, graveID, heir); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit heirs: %w", err)
	}

	slog.InfoContext(ctx, "Heirs replaced", "grave_id", graveID, "count", len(heirs))
	return nil
}

func insertHeir(ctx context.Context, tx *sql.Tx, graveID int64, heir core.CreateHeirRequest) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO heirs (grave_id, order_number, full_name, phone_number, relationship, address, is_primary) VALUES (?, ?, ?, ?, ?, ?, ?)",
		graveID, heir.OrderNumber, heir.FullName, heir.PhoneNumber, heir.Relationship, heir.Address, heir.IsPrimary)
	if err != nil {
		return fmt.Errorf("create heir: %w", translateConstraint(err))
	}
	return nil
}
