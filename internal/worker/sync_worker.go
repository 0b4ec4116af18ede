package worker

import (
	"context"
	"fmt"
	"log/slog"

	"astana/internal/amqp"
	"astana/internal/sheets"
	"astana/internal/storage"
)

// SyncWorker copies payments from SQLite to the off-site ledger mirror.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	mirror    sheets.PaymentWriter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, mirror sheets.PaymentWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		mirror:    mirror,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single payment sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.PaymentSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"payment_id", msg.PaymentID,
		"grave_id", msg.GraveID,
		"year", msg.Year)

	return w.mirrorPayment(ctx, msg.PaymentID)
}

// ProcessPendingPayments sweeps payments that haven't been mirrored yet.
// This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingPayments(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncPayments(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending payments: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending payments", "count", len(pending))

	for _, p := range pending {
		if err := w.mirrorPayment(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror payment", "payment_id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck mirrors any payments left pending while the worker was
// down, using a larger batch than the periodic sweep.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncPayments(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending payments for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending payments found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending payments on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, p := range pending {
		if err := w.mirrorPayment(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror payment during startup",
				"payment_id", p.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) mirrorPayment(ctx context.Context, paymentID int64) error {
	payment, err := w.storage.GetPaymentByID(ctx, paymentID)
	if err != nil {
		if markErr := w.storage.MarkPaymentSyncError(ctx, paymentID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "payment_id", paymentID, "error", markErr)
		}
		return fmt.Errorf("get payment from storage: %w", err)
	}

	grave, err := w.storage.GetGraveByID(ctx, payment.GraveID)
	if err != nil {
		if markErr := w.storage.MarkPaymentSyncError(ctx, paymentID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "payment_id", paymentID, "error", markErr)
		}
		return fmt.Errorf("get grave from storage: %w", err)
	}

	row := sheets.LedgerRow{
		BlockCode:    grave.BlockCode,
		GraveNumber:  grave.Number,
		DeceasedName: grave.DeceasedName,
		Year:         payment.Year,
		Amount:       payment.Amount,
		PaymentDate:  payment.PaymentDate,
		Method:       payment.PaymentMethod,
	}

	ref, err := w.mirror.Append(ctx, row)
	if err != nil {
		if markErr := w.storage.MarkPaymentSyncError(ctx, paymentID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "payment_id", paymentID, "error", markErr)
		}
		return fmt.Errorf("append to mirror: %w", err)
	}

	if err := w.storage.MarkPaymentSynced(ctx, paymentID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "payment_id", paymentID, "error", err)
		// Don't return error here - the mirror write actually worked
	}

	slog.InfoContext(ctx, "Successfully mirrored payment",
		"payment_id", paymentID,
		"mirror_ref", ref,
		"grave", grave.Number,
		"year", payment.Year)

	return nil
}
