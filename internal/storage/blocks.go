package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"astana/internal/core"
)

const blockColumns = "id, code, description, total_capacity, annual_fee, status, created_at, updated_at"

func scanBlock(row interface{ Scan(...any) error }) (core.Block, error) {
	var b core.Block
	err := row.Scan(&b.ID, &b.Code, &b.Description, &b.TotalCapacity, &b.AnnualFee, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *SQLiteRepository) GetAllBlocks(ctx context.Context) ([]core.Block, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+blockColumns+" FROM blocks ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}
	defer rows.Close()

	var blocks []core.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (r *SQLiteRepository) GetBlockByID(ctx context.Context, id int64) (core.Block, error) {
	b, err := scanBlock(r.db.QueryRowContext(ctx, "SELECT "+blockColumns+" FROM blocks WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Block{}, core.ErrNotFound
	}
	if err != nil {
		return core.Block{}, fmt.Errorf("get block: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) CreateBlock(ctx context.Context, req core.CreateBlockRequest) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO blocks (code, description, total_capacity, annual_fee, status) VALUES (?, ?, ?, ?, ?)",
		req.Code, req.Description, req.TotalCapacity, req.AnnualFee, req.Status)
	if err != nil {
		return 0, fmt.Errorf("create block: %w", translateConstraint(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("block insert id: %w", err)
	}

	slog.InfoContext(ctx, "Block created", "id", id, "code", req.Code, "annual_fee", req.AnnualFee)
	return id, nil
}

func (r *SQLiteRepository) UpdateBlock(ctx context.Context, id int64, req core.UpdateBlockRequest) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE blocks SET
			code = COALESCE(?, code),
			description = COALESCE(?, description),
			total_capacity = COALESCE(?, total_capacity),
			annual_fee = COALESCE(?, annual_fee),
			status = COALESCE(?, status),
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		req.Code, req.Description, req.TotalCapacity, req.AnnualFee, req.Status, id)
	if err != nil {
		return fmt.Errorf("update block: %w", translateConstraint(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// DeleteBlock refuses to remove a block that still owns graves. The FK is
// ON DELETE RESTRICT as a backstop, but the pre-check gives a usable count.
func (r *SQLiteRepository) DeleteBlock(ctx context.Context, id int64) error {
	var graveCount int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM graves WHERE block_id = ?", id).Scan(&graveCount); err != nil {
		return fmt.Errorf("count block graves: %w", err)
	}
	if graveCount > 0 {
		return fmt.Errorf("%w: %d grave(s) still associated", core.ErrBlockHasGraves, graveCount)
	}

	res, err := r.db.ExecContext(ctx, "DELETE FROM blocks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Block deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) GetBlockStats(ctx context.Context, blockID int64) (core.BlockStats, error) {
	var stats core.BlockStats
	err := r.db.QueryRowContext(ctx,
		"SELECT total_capacity, (SELECT COUNT(*) FROM graves WHERE block_id = blocks.id) FROM blocks WHERE id = ?",
		blockID).Scan(&stats.TotalCapacity, &stats.Occupied)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BlockStats{}, core.ErrNotFound
	}
	if err != nil {
		return core.BlockStats{}, fmt.Errorf("block stats: %w", err)
	}
	stats.Available = stats.TotalCapacity - stats.Occupied
	return stats, nil
}
