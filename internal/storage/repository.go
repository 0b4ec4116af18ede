package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"astana/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the single datastore of the application: one local
// SQLite file holding blocks, graves, heirs, payments and settings.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Cascade deletes on graves depend on the foreign_keys pragma.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// translateConstraint maps SQLite constraint violations onto the domain's
// conflict errors so callers never see raw driver messages.
func translateConstraint(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "blocks.code"):
		return core.ErrDuplicateBlockCode
	case strings.Contains(msg, "graves.block_id") && strings.Contains(msg, "graves.number"):
		return core.ErrDuplicateGraveNumber
	case strings.Contains(msg, "payments.grave_id") && strings.Contains(msg, "payments.year"):
		return core.ErrDuplicateYear
	case strings.Contains(msg, "heirs.grave_id") && strings.Contains(msg, "heirs.order_number"):
		return core.ErrDuplicateHeirOrder
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return core.ErrNotFound
	}
	return err
}

// GetDatabaseStats counts rows per table and the database file size.
func (r *SQLiteRepository) GetDatabaseStats(ctx context.Context) (core.DatabaseStats, error) {
	var stats core.DatabaseStats

	counts := []struct {
		query string
		dst   *int64
	}{
		{"SELECT COUNT(*) FROM graves", &stats.GravesCount},
		{"SELECT COUNT(*) FROM heirs", &stats.HeirsCount},
		{"SELECT COUNT(*) FROM payments", &stats.PaymentsCount},
		{"SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()", &stats.SizeBytes},
	}
	for _, c := range counts {
		if err := r.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return core.DatabaseStats{}, fmt.Errorf("database stats: %w", err)
		}
	}

	return stats, nil
}

// Backup writes a consistent snapshot of the database to backupPath.
func (r *SQLiteRepository) Backup(ctx context.Context, backupPath string) error {
	if err := os.MkdirAll(filepath.Dir(backupPath), 0755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, "VACUUM INTO ?", backupPath); err != nil {
		return fmt.Errorf("backup database: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE settings SET last_backup = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = 1"); err != nil {
		return fmt.Errorf("update last backup: %w", err)
	}

	slog.InfoContext(ctx, "Database backup written", "path", backupPath)
	return nil
}
