package services

import (
	"context"
	"fmt"

	"astana/internal/core"
	"astana/internal/storage"
)

// PageSize is the fixed grave listing page size.
const PageSize = 10

// GraveListPage is one page of the filtered grave listing.
type GraveListPage struct {
	Items      []core.GraveWithBlock `json:"items"`
	TotalCount int64                 `json:"total_count"`
	Page       int64                 `json:"page"`
	PageSize   int64                 `json:"page_size"`
	TotalPages int64                 `json:"total_pages"`
}

// GraveDetail is one grave with its heirs and payment history.
type GraveDetail struct {
	Grave    core.GraveWithBlock `json:"grave"`
	Heirs    []core.Heir         `json:"heirs"`
	Payments []core.Payment      `json:"payments"`
}

// GraveService coordinates grave records, their heirs, and listing pages.
type GraveService struct {
	storage *storage.SQLiteRepository
}

func NewGraveService(storage *storage.SQLiteRepository) *GraveService {
	return &GraveService{storage: storage}
}

// ListGraves returns one fixed-size page of graves matching the search text
// and optional block filter. An empty listing still reports one page.
func (s *GraveService) ListGraves(ctx context.Context, search string, blockID, page int64) (GraveListPage, error) {
	total, totalPages, err := s.pageBounds(ctx, search, blockID, page)
	if err != nil {
		return GraveListPage{}, err
	}

	items, err := s.storage.GetGraves(ctx, search, blockID, PageSize, (page-1)*PageSize)
	if err != nil {
		return GraveListPage{}, fmt.Errorf("list graves: %w", err)
	}

	return GraveListPage{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   PageSize,
		TotalPages: totalPages,
	}, nil
}

// GravePaymentsPage is one listing page with each grave's recent ledger state.
type GravePaymentsPage struct {
	Items      []core.GraveWithPayments `json:"items"`
	Year       int                      `json:"year"`
	TotalCount int64                    `json:"total_count"`
	Page       int64                    `json:"page"`
	PageSize   int64                    `json:"page_size"`
	TotalPages int64                    `json:"total_pages"`
}

// ListGravesWithPayments returns one page of graves annotated with their
// paid/unpaid state for the recent years ending at year. A year of zero
// falls back to the configured active year.
func (s *GraveService) ListGravesWithPayments(ctx context.Context, search string, blockID, page int64, year int) (GravePaymentsPage, error) {
	if year <= 0 {
		settings, err := s.storage.GetSettings(ctx)
		if err != nil {
			return GravePaymentsPage{}, fmt.Errorf("get settings: %w", err)
		}
		year = settings.ActiveYear
	}

	total, totalPages, err := s.pageBounds(ctx, search, blockID, page)
	if err != nil {
		return GravePaymentsPage{}, err
	}

	items, err := s.storage.GetGravesWithPaymentSummary(ctx, search, blockID, year, PageSize, (page-1)*PageSize)
	if err != nil {
		return GravePaymentsPage{}, fmt.Errorf("list graves with payments: %w", err)
	}

	return GravePaymentsPage{
		Items:      items,
		Year:       year,
		TotalCount: total,
		Page:       page,
		PageSize:   PageSize,
		TotalPages: totalPages,
	}, nil
}

// pageBounds validates the requested page against the filtered total.
// An empty listing still reports one page.
func (s *GraveService) pageBounds(ctx context.Context, search string, blockID, page int64) (total, totalPages int64, err error) {
	if page < 1 {
		return 0, 0, core.ErrInvalidPage
	}

	total, err = s.storage.CountGraves(ctx, search, blockID)
	if err != nil {
		return 0, 0, fmt.Errorf("count graves: %w", err)
	}

	totalPages = (total + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		return 0, 0, core.ErrInvalidPage
	}
	return total, totalPages, nil
}

// CreateGrave stores a grave together with up to three heirs in one
// transaction and returns the stored record.
func (s *GraveService) CreateGrave(ctx context.Context, req core.CreateGraveRequest, heirs []core.CreateHeirRequest) (core.GraveWithBlock, error) {
	if err := req.Validate(); err != nil {
		return core.GraveWithBlock{}, err
	}
	if err := validateHeirs(heirs); err != nil {
		return core.GraveWithBlock{}, err
	}

	id, err := s.storage.CreateGraveWithHeirs(ctx, req, heirs)
	if err != nil {
		return core.GraveWithBlock{}, fmt.Errorf("create grave: %w", err)
	}
	return s.storage.GetGraveByID(ctx, id)
}

// GetGraveDetail loads one grave with its heirs and payment history.
func (s *GraveService) GetGraveDetail(ctx context.Context, id int64) (GraveDetail, error) {
	grave, err := s.storage.GetGraveByID(ctx, id)
	if err != nil {
		return GraveDetail{}, fmt.Errorf("get grave: %w", err)
	}
	heirs, err := s.storage.GetHeirsByGrave(ctx, id)
	if err != nil {
		return GraveDetail{}, fmt.Errorf("get heirs: %w", err)
	}
	payments, err := s.storage.GetPaymentsByGrave(ctx, id)
	if err != nil {
		return GraveDetail{}, fmt.Errorf("get payments: %w", err)
	}
	return GraveDetail{Grave: grave, Heirs: heirs, Payments: payments}, nil
}

// UpdateGrave applies a partial update; nil fields stay unchanged.
func (s *GraveService) UpdateGrave(ctx context.Context, id int64, req core.UpdateGraveRequest) (core.GraveWithBlock, error) {
	if req.DeceasedName != nil && *req.DeceasedName == "" {
		return core.GraveWithBlock{}, core.ErrEmptyName
	}
	if req.Number != nil && *req.Number == "" {
		return core.GraveWithBlock{}, core.ErrEmptyNumber
	}
	if req.DateOfDeath != nil && !core.ValidDate(*req.DateOfDeath) {
		return core.GraveWithBlock{}, core.ErrInvalidDate
	}
	if req.BurialDate != nil && *req.BurialDate != "" && !core.ValidDate(*req.BurialDate) {
		return core.GraveWithBlock{}, core.ErrInvalidDate
	}

	if err := s.storage.UpdateGrave(ctx, id, req); err != nil {
		return core.GraveWithBlock{}, fmt.Errorf("update grave: %w", err)
	}
	return s.storage.GetGraveByID(ctx, id)
}

// DeleteGrave removes the grave; heirs and payments cascade away with it.
func (s *GraveService) DeleteGrave(ctx context.Context, id int64) error {
	if err := s.storage.DeleteGrave(ctx, id); err != nil {
		return fmt.Errorf("delete grave: %w", err)
	}
	return nil
}

// ReplaceHeirs swaps a grave's heir list for the given one.
func (s *GraveService) ReplaceHeirs(ctx context.Context, graveID int64, heirs []core.CreateHeirRequest) ([]core.Heir, error) {
	if _, err := s.storage.GetGraveByID(ctx, graveID); err != nil {
		return nil, fmt.Errorf("get grave: %w", err)
	}
	if err := validateHeirs(heirs); err != nil {
		return nil, err
	}
	if err := s.storage.ReplaceHeirs(ctx, graveID, heirs); err != nil {
		return nil, fmt.Errorf("replace heirs: %w", err)
	}
	return s.storage.GetHeirsByGrave(ctx, graveID)
}

func validateHeirs(heirs []core.CreateHeirRequest) error {
	if len(heirs) > core.MaxHeirsPerGrave {
		return core.ErrTooManyHeirs
	}
	for _, h := range heirs {
		if err := h.Validate(); err != nil {
			return err
		}
	}
	return nil
}
