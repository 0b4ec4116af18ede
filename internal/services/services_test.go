package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"astana/internal/core"
	"astana/internal/storage"
)

func newTestStorage(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "astana.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustBlock(t *testing.T, repo *storage.SQLiteRepository, code string, fee int64) int64 {
	t.Helper()
	id, err := repo.CreateBlock(context.Background(), core.CreateBlockRequest{
		Code: code, TotalCapacity: 100, AnnualFee: fee, Status: core.StatusActive,
	})
	if err != nil {
		t.Fatalf("create block %s: %v", code, err)
	}
	return id
}

func mustGrave(t *testing.T, repo *storage.SQLiteRepository, blockID int64, number string) int64 {
	t.Helper()
	id, err := repo.CreateGraveWithHeirs(context.Background(), core.CreateGraveRequest{
		DeceasedName: "Almarhum " + number, BlockID: blockID, Number: number, DateOfDeath: "2019-06-01",
	}, nil)
	if err != nil {
		t.Fatalf("create grave %s: %v", number, err)
	}
	return id
}

func mustPay(t *testing.T, repo *storage.SQLiteRepository, graveID int64, year int, amount int64) {
	t.Helper()
	_, err := repo.CreatePayment(context.Background(), core.CreatePaymentRequest{
		GraveID: graveID, Year: year, PaymentDate: fmt.Sprintf("%d-01-15", year), Amount: amount, PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("create payment year %d: %v", year, err)
	}
}

func TestGetYearStatus(t *testing.T) {
	repo := newTestStorage(t)
	ledger := NewLedgerService(repo, nil)
	ctx := context.Background()

	blockID := mustBlock(t, repo, "A", 200000)
	graveID := mustGrave(t, repo, blockID, "A-01")
	mustPay(t, repo, graveID, 2023, 150000)

	paid, err := ledger.GetYearStatus(ctx, graveID, 2023)
	if err != nil {
		t.Fatalf("paid year: %v", err)
	}
	if !paid.IsPaid || paid.Amount != 150000 || paid.Payment == nil {
		t.Errorf("paid status = %+v", paid)
	}

	unpaid, err := ledger.GetYearStatus(ctx, graveID, 2024)
	if err != nil {
		t.Fatalf("unpaid year: %v", err)
	}
	if unpaid.IsPaid || unpaid.Amount != 200000 || unpaid.Payment != nil {
		t.Errorf("unpaid status = %+v", unpaid)
	}

	if _, err := ledger.GetYearStatus(ctx, 999, 2024); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing grave error = %v", err)
	}
}

func TestRecordPayment(t *testing.T) {
	repo := newTestStorage(t)
	ledger := NewLedgerService(repo, nil)
	ctx := context.Background()

	blockID := mustBlock(t, repo, "A", 200000)
	graveID := mustGrave(t, repo, blockID, "A-01")

	payment, err := ledger.RecordPayment(ctx, core.CreatePaymentRequest{
		GraveID: graveID, Year: 2024, PaymentDate: "2024-02-01", Amount: 200000,
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if payment.ID == 0 || payment.PaymentMethod != "cash" {
		t.Errorf("payment = %+v", payment)
	}

	// Same grave and year again is a conflict.
	_, err = ledger.RecordPayment(ctx, core.CreatePaymentRequest{
		GraveID: graveID, Year: 2024, PaymentDate: "2024-03-01", Amount: 250000,
	})
	if !errors.Is(err, core.ErrDuplicateYear) {
		t.Errorf("duplicate year error = %v", err)
	}

	// Unknown grave surfaces not-found, not a constraint failure.
	_, err = ledger.RecordPayment(ctx, core.CreatePaymentRequest{
		GraveID: 999, Year: 2024, PaymentDate: "2024-02-01", Amount: 200000,
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing grave error = %v", err)
	}

	// Validation failures never reach the store.
	_, err = ledger.RecordPayment(ctx, core.CreatePaymentRequest{
		GraveID: graveID, Year: 2025, PaymentDate: "2025-02-01", Amount: 0,
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("zero amount error = %v", err)
	}
}

func TestDeletePaymentRevertsYear(t *testing.T) {
	repo := newTestStorage(t)
	ledger := NewLedgerService(repo, nil)
	ctx := context.Background()

	blockID := mustBlock(t, repo, "A", 200000)
	graveID := mustGrave(t, repo, blockID, "A-01")

	payment, err := ledger.RecordPayment(ctx, core.CreatePaymentRequest{
		GraveID: graveID, Year: 2024, PaymentDate: "2024-02-01", Amount: 200000,
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}

	if err := ledger.DeletePayment(ctx, payment.ID); err != nil {
		t.Fatalf("delete payment: %v", err)
	}

	status, err := ledger.GetYearStatus(ctx, graveID, 2024)
	if err != nil {
		t.Fatalf("status after delete: %v", err)
	}
	if status.IsPaid {
		t.Errorf("year still paid after delete: %+v", status)
	}

	if err := ledger.DeletePayment(ctx, payment.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("double delete error = %v", err)
	}
}

func TestSummarize(t *testing.T) {
	repo := newTestStorage(t)
	report := NewReportService(repo)
	ctx := context.Background()

	blockID := mustBlock(t, repo, "A", 200000)
	graveID := mustGrave(t, repo, blockID, "A-01")
	mustPay(t, repo, graveID, 2022, 100000)
	mustPay(t, repo, graveID, 2024, 150000)

	summary, err := report.Summarize(ctx, graveID, 2022, 2024)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.YearsPaid != 2 {
		t.Errorf("YearsPaid = %d, want 2", summary.YearsPaid)
	}
	if summary.TotalPaid != 250000 {
		t.Errorf("TotalPaid = %d, want 250000", summary.TotalPaid)
	}
	if len(summary.PerYear) != 3 {
		t.Fatalf("PerYear length = %d, want 3", len(summary.PerYear))
	}
	if summary.PerYear[0].Amount != 100000 || !summary.PerYear[0].IsPaid {
		t.Errorf("2022 = %+v", summary.PerYear[0])
	}
	if summary.PerYear[1].IsPaid || summary.PerYear[1].Amount != 200000 {
		t.Errorf("2023 = %+v", summary.PerYear[1])
	}
	if summary.PerYear[2].Amount != 150000 || !summary.PerYear[2].IsPaid {
		t.Errorf("2024 = %+v", summary.PerYear[2])
	}
	if got := summary.Arrears(); got != 200000 {
		t.Errorf("Arrears = %d, want 200000", got)
	}

	// An inverted range is empty, not an error.
	empty, err := report.Summarize(ctx, graveID, 2024, 2022)
	if err != nil {
		t.Fatalf("inverted range: %v", err)
	}
	if empty.YearsPaid != 0 || empty.TotalPaid != 0 || len(empty.PerYear) != 0 {
		t.Errorf("inverted range summary = %+v", empty)
	}
}

// Raising the block fee must not reprice years already paid, but unpaid
// years always reflect the new amount due.
func TestSummarizeFeeDrift(t *testing.T) {
	repo := newTestStorage(t)
	report := NewReportService(repo)
	ctx := context.Background()

	blockID := mustBlock(t, repo, "A", 200000)
	graveID := mustGrave(t, repo, blockID, "A-01")
	mustPay(t, repo, graveID, 2023, 200000)

	newFee := int64(300000)
	if err := repo.UpdateBlock(ctx, blockID, core.UpdateBlockRequest{AnnualFee: &newFee}); err != nil {
		t.Fatalf("raise fee: %v", err)
	}

	summary, err := report.Summarize(ctx, graveID, 2023, 2024)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.PerYear[0].Amount != 200000 {
		t.Errorf("paid 2023 repriced to %d", summary.PerYear[0].Amount)
	}
	if summary.PerYear[1].Amount != 300000 {
		t.Errorf("unpaid 2024 = %d, want 300000", summary.PerYear[1].Amount)
	}
	if got := summary.Arrears(); got != 300000 {
		t.Errorf("Arrears = %d, want 300000", got)
	}
}

func TestDefaultYearRange(t *testing.T) {
	repo := newTestStorage(t)
	report := NewReportService(repo)
	ctx := context.Background()

	// No payments: fall back to the configured active year.
	settings, err := repo.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	start, end, err := report.DefaultYearRange(ctx)
	if err != nil {
		t.Fatalf("default range: %v", err)
	}
	if start != settings.ActiveYear || end != settings.ActiveYear {
		t.Errorf("empty ledger range = %d..%d, want %d..%d", start, end, settings.ActiveYear, settings.ActiveYear)
	}

	blockID := mustBlock(t, repo, "A", 200000)
	graveID := mustGrave(t, repo, blockID, "A-01")
	mustPay(t, repo, graveID, 2021, 200000)
	mustPay(t, repo, graveID, 2024, 200000)

	start, end, err = report.DefaultYearRange(ctx)
	if err != nil {
		t.Fatalf("default range: %v", err)
	}
	if start != 2021 || end != 2024 {
		t.Errorf("range = %d..%d, want 2021..2024", start, end)
	}
}

func TestListGravesPagination(t *testing.T) {
	repo := newTestStorage(t)
	graves := NewGraveService(repo)
	ctx := context.Background()

	blockID := mustBlock(t, repo, "A", 200000)
	for i := 1; i <= 25; i++ {
		mustGrave(t, repo, blockID, fmt.Sprintf("A-%02d", i))
	}

	page1, err := graves.ListGraves(ctx, "", 0, 1)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(page1.Items) != 10 || page1.TotalCount != 25 || page1.TotalPages != 3 {
		t.Errorf("page 1 = %d items, total %d, pages %d", len(page1.Items), page1.TotalCount, page1.TotalPages)
	}

	page3, err := graves.ListGraves(ctx, "", 0, 3)
	if err != nil {
		t.Fatalf("page 3: %v", err)
	}
	if len(page3.Items) != 5 {
		t.Errorf("page 3 = %d items, want 5", len(page3.Items))
	}

	if _, err := graves.ListGraves(ctx, "", 0, 4); !errors.Is(err, core.ErrInvalidPage) {
		t.Errorf("page past end error = %v", err)
	}
	if _, err := graves.ListGraves(ctx, "", 0, 0); !errors.Is(err, core.ErrInvalidPage) {
		t.Errorf("page zero error = %v", err)
	}
}

func TestListGravesWithPayments(t *testing.T) {
	repo := newTestStorage(t)
	graves := NewGraveService(repo)
	ctx := context.Background()

	blockID := mustBlock(t, repo, "A", 200000)
	graveID := mustGrave(t, repo, blockID, "A-01")
	mustPay(t, repo, graveID, 2023, 150000)

	page, err := graves.ListGravesWithPayments(ctx, "", 0, 1, 2024)
	if err != nil {
		t.Fatalf("list with payments: %v", err)
	}
	if len(page.Items) != 1 || page.Year != 2024 {
		t.Fatalf("page = %+v", page)
	}

	recent := page.Items[0].RecentPayments
	if len(recent) != 3 {
		t.Fatalf("recent payments = %d entries, want 3", len(recent))
	}
	if recent[0].Year != 2022 || recent[0].IsPaid || recent[0].Amount != 200000 {
		t.Errorf("2022 status = %+v", recent[0])
	}
	if recent[1].Year != 2023 || !recent[1].IsPaid || recent[1].Amount != 150000 {
		t.Errorf("2023 status = %+v", recent[1])
	}
	if recent[2].Year != 2024 || recent[2].IsPaid || recent[2].Amount != 200000 {
		t.Errorf("2024 status = %+v", recent[2])
	}

	// Year zero falls back to the configured active year.
	fallback, err := graves.ListGravesWithPayments(ctx, "", 0, 1, 0)
	if err != nil {
		t.Fatalf("list with default year: %v", err)
	}
	settings, err := repo.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if fallback.Year != settings.ActiveYear {
		t.Errorf("fallback year = %d, want %d", fallback.Year, settings.ActiveYear)
	}

	if _, err := graves.ListGravesWithPayments(ctx, "", 0, 2, 2024); !errors.Is(err, core.ErrInvalidPage) {
		t.Errorf("page past end error = %v", err)
	}
}

func TestListGravesEmptyStillOnePage(t *testing.T) {
	repo := newTestStorage(t)
	graves := NewGraveService(repo)

	page, err := graves.ListGraves(context.Background(), "", 0, 1)
	if err != nil {
		t.Fatalf("empty listing: %v", err)
	}
	if page.TotalPages != 1 || page.TotalCount != 0 || len(page.Items) != 0 {
		t.Errorf("empty page = %+v", page)
	}
}

func TestCreateGraveWithHeirs(t *testing.T) {
	repo := newTestStorage(t)
	graves := NewGraveService(repo)
	ctx := context.Background()

	blockID := mustBlock(t, repo, "A", 200000)

	heirs := []core.CreateHeirRequest{
		{OrderNumber: 1, FullName: "Siti Aminah", IsPrimary: true},
		{OrderNumber: 2, FullName: "Budi Santoso"},
	}
	grave, err := graves.CreateGrave(ctx, core.CreateGraveRequest{
		DeceasedName: "Haji Sulaiman", BlockID: blockID, Number: "A-01", DateOfDeath: "2020-03-15",
	}, heirs)
	if err != nil {
		t.Fatalf("create grave: %v", err)
	}
	if grave.BlockCode != "A" || grave.AnnualFee != 200000 {
		t.Errorf("grave = %+v", grave)
	}

	detail, err := graves.GetGraveDetail(ctx, grave.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(detail.Heirs) != 2 || detail.Heirs[0].FullName != "Siti Aminah" {
		t.Errorf("heirs = %+v", detail.Heirs)
	}

	tooMany := []core.CreateHeirRequest{
		{OrderNumber: 1, FullName: "a"}, {OrderNumber: 2, FullName: "b"},
		{OrderNumber: 3, FullName: "c"}, {OrderNumber: 1, FullName: "d"},
	}
	_, err = graves.CreateGrave(ctx, core.CreateGraveRequest{
		DeceasedName: "Lain", BlockID: blockID, Number: "A-02", DateOfDeath: "2020-03-15",
	}, tooMany)
	if !errors.Is(err, core.ErrTooManyHeirs) {
		t.Errorf("too many heirs error = %v", err)
	}
}

func TestReplaceHeirs(t *testing.T) {
	repo := newTestStorage(t)
	graves := NewGraveService(repo)
	ctx := context.Background()

	blockID := mustBlock(t, repo, "A", 200000)
	graveID := mustGrave(t, repo, blockID, "A-01")

	got, err := graves.ReplaceHeirs(ctx, graveID, []core.CreateHeirRequest{
		{OrderNumber: 1, FullName: "Siti Aminah", IsPrimary: true},
	})
	if err != nil {
		t.Fatalf("replace heirs: %v", err)
	}
	if len(got) != 1 || got[0].FullName != "Siti Aminah" {
		t.Errorf("heirs = %+v", got)
	}

	got, err = graves.ReplaceHeirs(ctx, graveID, []core.CreateHeirRequest{
		{OrderNumber: 1, FullName: "Budi Santoso"},
		{OrderNumber: 2, FullName: "Dewi Lestari"},
	})
	if err != nil {
		t.Fatalf("replace heirs again: %v", err)
	}
	if len(got) != 2 || got[0].FullName != "Budi Santoso" {
		t.Errorf("heirs after replace = %+v", got)
	}

	if _, err := graves.ReplaceHeirs(ctx, 999, nil); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing grave error = %v", err)
	}
}
