package services

import (
	"context"
	"fmt"

	"astana/internal/core"
	"astana/internal/storage"
)

// ReportService folds payment ledgers into per-grave year summaries.
type ReportService struct {
	storage *storage.SQLiteRepository
}

func NewReportService(storage *storage.SQLiteRepository) *ReportService {
	return &ReportService{storage: storage}
}

// Summarize walks the inclusive year range for one grave. Paid years keep
// the amount recorded at payment time; unpaid years carry the block's
// current annual fee. An inverted range is empty, not an error.
func (s *ReportService) Summarize(ctx context.Context, graveID int64, startYear, endYear int) (core.GraveSummary, error) {
	grave, err := s.storage.GetGraveByID(ctx, graveID)
	if err != nil {
		return core.GraveSummary{}, fmt.Errorf("get grave: %w", err)
	}

	payments, err := s.storage.GetPaymentsByGrave(ctx, graveID)
	if err != nil {
		return core.GraveSummary{}, fmt.Errorf("get payments: %w", err)
	}
	byYear := make(map[int]core.Payment, len(payments))
	for _, p := range payments {
		byYear[p.Year] = p
	}

	span := endYear - startYear + 1
	if span < 0 {
		span = 0
	}
	summary := core.GraveSummary{
		Grave:     grave,
		StartYear: startYear,
		EndYear:   endYear,
		PerYear:   make([]core.YearStatus, 0, span),
	}
	for year := startYear; year <= endYear; year++ {
		if p, ok := byYear[year]; ok {
			payment := p
			summary.PerYear = append(summary.PerYear, core.YearStatus{
				Year: year, IsPaid: true, Amount: p.Amount, Payment: &payment,
			})
			summary.YearsPaid++
			summary.TotalPaid += p.Amount
			continue
		}
		summary.PerYear = append(summary.PerYear, core.YearStatus{
			Year: year, IsPaid: false, Amount: grave.AnnualFee,
		})
	}

	return summary, nil
}

// SummarizeAll builds summaries for every grave matching the filter,
// in listing order, without pagination. The export surface uses this.
func (s *ReportService) SummarizeAll(ctx context.Context, search string, blockID int64, startYear, endYear int) ([]core.GraveSummary, error) {
	total, err := s.storage.CountGraves(ctx, search, blockID)
	if err != nil {
		return nil, fmt.Errorf("count graves: %w", err)
	}
	if total == 0 {
		return nil, nil
	}

	graves, err := s.storage.GetGraves(ctx, search, blockID, total, 0)
	if err != nil {
		return nil, fmt.Errorf("list graves: %w", err)
	}

	summaries := make([]core.GraveSummary, 0, len(graves))
	for _, g := range graves {
		summary, err := s.Summarize(ctx, g.ID, startYear, endYear)
		if err != nil {
			return nil, fmt.Errorf("summarize grave %d: %w", g.ID, err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// DefaultYearRange spans the earliest to the latest recorded payment year.
// With no payments at all, it collapses to the configured active year.
func (s *ReportService) DefaultYearRange(ctx context.Context) (startYear, endYear int, err error) {
	minYear, maxYear, ok, err := s.storage.PaymentYearRange(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("payment year range: %w", err)
	}
	if ok {
		return minYear, maxYear, nil
	}

	settings, err := s.storage.GetSettings(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("get settings: %w", err)
	}
	return settings.ActiveYear, settings.ActiveYear, nil
}
