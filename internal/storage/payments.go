package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"astana/internal/core"
)

const paymentColumns = "id, grave_id, year, payment_date, amount, payment_method, payment_proof, paid_by, notes, created_at, updated_at"

func scanPayment(row interface{ Scan(...any) error }) (core.Payment, error) {
	var p core.Payment
	err := row.Scan(&p.ID, &p.GraveID, &p.Year, &p.PaymentDate, &p.Amount, &p.PaymentMethod,
		&p.PaymentProof, &p.PaidBy, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetPaymentByGraveAndYear returns nil when no payment exists for the pair;
// the (grave_id, year) unique constraint guarantees at most one row.
func (r *SQLiteRepository) GetPaymentByGraveAndYear(ctx context.Context, graveID int64, year int) (*core.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE grave_id = ? AND year = ?", graveID, year))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}

func (r *SQLiteRepository) GetPaymentByID(ctx context.Context, id int64) (core.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Payment{}, core.ErrNotFound
	}
	if err != nil {
		return core.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) GetPaymentsByGrave(ctx context.Context, graveID int64) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE grave_id = ? ORDER BY year DESC", graveID)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []core.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// CreatePayment checks the (grave, year) pair first so callers get a clean
// duplicate error; the unique constraint catches anything that slips by.
func (r *SQLiteRepository) CreatePayment(ctx context.Context, req core.CreatePaymentRequest) (int64, error) {
	existing, err := r.GetPaymentByGraveAndYear(ctx, req.GraveID, req.Year)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, core.ErrDuplicateYear
	}

	method := req.PaymentMethod
	if method == "" {
		method = "cash"
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO payments (grave_id, year, payment_date, amount, payment_method, payment_proof, paid_by, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		req.GraveID, req.Year, req.PaymentDate, req.Amount, method, req.PaymentProof, req.PaidBy, req.Notes)
	if err != nil {
		return 0, fmt.Errorf("create payment: %w", translateConstraint(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("payment insert id: %w", err)
	}

	slog.InfoContext(ctx, "Payment recorded", "id", id, "grave_id", req.GraveID,
		"year", req.Year, "amount", req.Amount, "method", method)
	return id, nil
}

func (r *SQLiteRepository) DeletePayment(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM payments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Payment deleted", "id", id)
	return nil
}

// PaymentYearRange reports the min and max years present in the payment
// history. ok is false when no payments exist at all.
func (r *SQLiteRepository) PaymentYearRange(ctx context.Context) (minYear, maxYear int, ok bool, err error) {
	var lo, hi sql.NullInt64
	if err := r.db.QueryRowContext(ctx, "SELECT MIN(year), MAX(year) FROM payments").Scan(&lo, &hi); err != nil {
		return 0, 0, false, fmt.Errorf("payment year range: %w", err)
	}
	if !lo.Valid || !hi.Valid {
		return 0, 0, false, nil
	}
	return int(lo.Int64), int(hi.Int64), true, nil
}

// PendingSyncPayment is the minimal row the mirror worker needs to queue.
type PendingSyncPayment struct {
	ID        int64
	CreatedAt string
}

// GetPendingSyncPayments returns payments not yet mirrored, oldest first.
func (r *SQLiteRepository) GetPendingSyncPayments(ctx context.Context, limit int) ([]PendingSyncPayment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, created_at FROM payments WHERE sync_status = 'pending' ORDER BY created_at LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query pending payments: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncPayment
	for rows.Next() {
		var p PendingSyncPayment
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending payment: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkPaymentSynced marks a payment as successfully mirrored.
func (r *SQLiteRepository) MarkPaymentSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE payments SET sync_status = 'synced', synced_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = ?", id); err != nil {
		return fmt.Errorf("mark payment synced: %w", err)
	}
	slog.InfoContext(ctx, "Payment marked as synced", "id", id)
	return nil
}

// MarkPaymentSyncError marks a payment whose mirror attempt failed.
func (r *SQLiteRepository) MarkPaymentSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE payments SET sync_status = 'error', updated_at = CURRENT_TIMESTAMP WHERE id = ?", id); err != nil {
		return fmt.Errorf("mark payment sync error: %w", err)
	}
	slog.WarnContext(ctx, "Payment marked with sync error", "id", id)
	return nil
}
