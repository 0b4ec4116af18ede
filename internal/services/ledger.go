package services

import (
	"context"
	"fmt"
	"log/slog"

	"astana/internal/amqp"
	"astana/internal/core"
	"astana/internal/storage"
)

// LedgerService orchestrates payment operations across SQLite and AMQP.
type LedgerService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewLedgerService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// GetYearStatus reports whether one grave has paid its fee for one year.
// A paid year carries the amount actually recorded at payment time; an
// unpaid year carries the block's current annual fee, the amount due now.
func (s *LedgerService) GetYearStatus(ctx context.Context, graveID int64, year int) (core.YearStatus, error) {
	grave, err := s.storage.GetGraveByID(ctx, graveID)
	if err != nil {
		return core.YearStatus{}, fmt.Errorf("get grave: %w", err)
	}

	payment, err := s.storage.GetPaymentByGraveAndYear(ctx, graveID, year)
	if err != nil {
		return core.YearStatus{}, fmt.Errorf("get payment: %w", err)
	}

	if payment != nil {
		return core.YearStatus{Year: year, IsPaid: true, Amount: payment.Amount, Payment: payment}, nil
	}
	return core.YearStatus{Year: year, IsPaid: false, Amount: grave.AnnualFee}, nil
}

// RecordPayment saves a payment locally and publishes a sync message.
func (s *LedgerService) RecordPayment(ctx context.Context, req core.CreatePaymentRequest) (core.Payment, error) {
	if err := req.Validate(); err != nil {
		return core.Payment{}, err
	}

	// Reject unknown graves up front so the caller sees not-found rather
	// than a foreign key violation.
	if _, err := s.storage.GetGraveByID(ctx, req.GraveID); err != nil {
		return core.Payment{}, fmt.Errorf("get grave: %w", err)
	}

	// Save to SQLite first (fast, reliable)
	id, err := s.storage.CreatePayment(ctx, req)
	if err != nil {
		return core.Payment{}, fmt.Errorf("save payment: %w", err)
	}

	payment, err := s.storage.GetPaymentByID(ctx, id)
	if err != nil {
		return core.Payment{}, fmt.Errorf("reload payment: %w", err)
	}

	// Publish async sync message (non-blocking)
	if err := s.publishSyncMessage(ctx, payment); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"payment_id", payment.ID, "error", err)
		// Don't fail the request - payment is saved locally
	}

	return payment, nil
}

// DeletePayment removes a payment; the year reverts to unpaid.
func (s *LedgerService) DeletePayment(ctx context.Context, id int64) error {
	if err := s.storage.DeletePayment(ctx, id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}

// GetPaymentsByGrave lists a grave's payments, newest year first.
func (s *LedgerService) GetPaymentsByGrave(ctx context.Context, graveID int64) ([]core.Payment, error) {
	return s.storage.GetPaymentsByGrave(ctx, graveID)
}

func (s *LedgerService) publishSyncMessage(ctx context.Context, p core.Payment) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.amqpClient.PublishPaymentSync(ctx, p.ID, p.GraveID, p.Year)
}

// Close closes both storage and AMQP connections.
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
