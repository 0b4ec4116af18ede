package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"astana/internal/core"
)

const graveColumns = `g.id, g.deceased_name, g.block_id, g.number, g.date_of_death, g.burial_date, g.notes,
	g.created_at, g.updated_at, b.code, b.annual_fee`

func scanGraveWithBlock(row interface{ Scan(...any) error }) (core.GraveWithBlock, error) {
	var g core.GraveWithBlock
	err := row.Scan(&g.ID, &g.DeceasedName, &g.BlockID, &g.Number, &g.DateOfDeath, &g.BurialDate, &g.Notes,
		&g.CreatedAt, &g.UpdatedAt, &g.BlockCode, &g.AnnualFee)
	return g, err
}

// graveFilter builds the shared WHERE clause for listing and counting.
// search matches deceased name, grave number and heir names as substrings;
// blockID zero means no block restriction.
func graveFilter(search string, blockID int64) (string, []any) {
	clause := " WHERE 1=1"
	var args []any

	if search != "" {
		clause += ` AND (g.deceased_name LIKE ? OR g.number LIKE ?
			OR EXISTS (SELECT 1 FROM heirs h WHERE h.grave_id = g.id AND h.full_name LIKE ?))`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if blockID > 0 {
		clause += " AND g.block_id = ?"
		args = append(args, blockID)
	}

	return clause, args
}

func (r *SQLiteRepository) GetGraves(ctx context.Context, search string, blockID, limit, offset int64) ([]core.GraveWithBlock, error) {
	clause, args := graveFilter(search, blockID)
	query := "SELECT " + graveColumns + " FROM graves g JOIN blocks b ON g.block_id = b.id" + clause +
		" ORDER BY g.created_at DESC, g.id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query graves: %w", err)
	}
	defer rows.Close()

	var graves []core.GraveWithBlock
	for rows.Next() {
		g, err := scanGraveWithBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grave: %w", err)
		}
		graves = append(graves, g)
	}
	return graves, rows.Err()
}

// recentYears is the window of ledger years shown next to each grave on
// the listing screen, ending at the requested year.
const recentYears = 3

// GetGravesWithPaymentSummary returns a page of graves, each carrying the
// paid/unpaid state of the recentYears window ending at year. Unpaid years
// carry the block's current annual fee.
func (r *SQLiteRepository) GetGravesWithPaymentSummary(ctx context.Context, search string, blockID int64, year int, limit, offset int64) ([]core.GraveWithPayments, error) {
	graves, err := r.GetGraves(ctx, search, blockID, limit, offset)
	if err != nil {
		return nil, err
	}

	firstYear := year - recentYears + 1
	result := make([]core.GraveWithPayments, 0, len(graves))
	for _, g := range graves {
		rows, err := r.db.QueryContext(ctx,
			"SELECT year, amount FROM payments WHERE grave_id = ? AND year BETWEEN ? AND ?",
			g.ID, firstYear, year)
		if err != nil {
			return nil, fmt.Errorf("query payment summary: %w", err)
		}

		paid := make(map[int]int64, recentYears)
		for rows.Next() {
			var y int
			var amount int64
			if err := rows.Scan(&y, &amount); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan payment summary: %w", err)
			}
			paid[y] = amount
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("payment summary rows: %w", err)
		}
		rows.Close()

		recent := make([]core.YearStatus, 0, recentYears)
		for y := firstYear; y <= year; y++ {
			if amount, ok := paid[y]; ok {
				recent = append(recent, core.YearStatus{Year: y, IsPaid: true, Amount: amount})
				continue
			}
			recent = append(recent, core.YearStatus{Year: y, IsPaid: false, Amount: g.AnnualFee})
		}
		result = append(result, core.GraveWithPayments{GraveWithBlock: g, RecentPayments: recent})
	}
	return result, nil
}

func (r *SQLiteRepository) CountGraves(ctx context.Context, search string, blockID int64) (int64, error) {
	clause, args := graveFilter(search, blockID)
	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM graves g"+clause, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count graves: %w", err)
	}
	return count, nil
}

func (r *SQLiteRepository) GetGraveByID(ctx context.Context, id int64) (core.GraveWithBlock, error) {
	g, err := scanGraveWithBlock(r.db.QueryRowContext(ctx,
		"SELECT "+graveColumns+" FROM graves g JOIN blocks b ON g.block_id = b.id WHERE g.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.GraveWithBlock{}, core.ErrNotFound
	}
	if err != nil {
		return core.GraveWithBlock{}, fmt.Errorf("get grave: %w", err)
	}
	return g, nil
}

// CreateGraveWithHeirs inserts a grave and its heirs in one transaction so
// a failed heir insert never leaves an heirless half-written grave behind.
func (r *SQLiteRepository) CreateGraveWithHeirs(ctx context.Context, grave core.CreateGraveRequest, heirs []core.CreateHeirRequest) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO graves (deceased_name, block_id, number, date_of_death, burial_date, notes) VALUES (?, ?, ?, ?, ?, ?)",
		grave.DeceasedName, grave.BlockID, grave.Number, grave.DateOfDeath, grave.BurialDate, grave.Notes)
	if err != nil {
		return 0, fmt.Errorf("create grave: %w", translateConstraint(err))
	}
	graveID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("grave insert id: %w", err)
	}

	for _, heir := range heirs {
		if err := insertHeir(ctx, tx, graveID, heir); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit grave: %w", err)
	}

	slog.InfoContext(ctx, "Grave created", "id", graveID, "deceased_name", grave.DeceasedName,
		"block_id", grave.BlockID, "number", grave.Number, "heirs", len(heirs))
	return graveID, nil
}

func (r *SQLiteRepository) UpdateGrave(ctx context.Context, id int64, req core.UpdateGraveRequest) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE graves SET
			deceased_name = COALESCE(?, deceased_name),
			block_id = COALESCE(?, block_id),
			number = COALESCE(?, number),
			date_of_death = COALESCE(?, date_of_death),
			burial_date = COALESCE(?, burial_date),
			notes = COALESCE(?, notes),
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		req.DeceasedName, req.BlockID, req.Number, req.DateOfDeath, req.BurialDate, req.Notes, id)
	if err != nil {
		return fmt.Errorf("update grave: %w", translateConstraint(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// DeleteGrave removes the grave; heirs and payments go with it via the
// cascade constraints.
func (r *SQLiteRepository) DeleteGrave(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM graves WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete grave: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Grave deleted", "id", id)
	return nil
}
