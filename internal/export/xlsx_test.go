package export

import (
	"testing"
	"time"

	"astana/internal/core"
)

func TestFilename(t *testing.T) {
	ts := time.Date(2024, 3, 7, 9, 5, 0, 0, time.UTC)
	got := Filename(ts)
	want := "Data_Pembayaran_20240307_0905.xlsx"
	if got != want {
		t.Errorf("Filename = %q, want %q", got, want)
	}
}

func TestBuildWorkbook(t *testing.T) {
	grave := core.GraveWithBlock{
		Grave:     core.Grave{ID: 1, DeceasedName: "Haji Sulaiman", Number: "A-01"},
		BlockCode: "A",
		AnnualFee: 200000,
	}
	payment := core.Payment{ID: 1, GraveID: 1, Year: 2022, Amount: 100000}
	summaries := []core.GraveSummary{{
		Grave:     grave,
		StartYear: 2022,
		EndYear:   2024,
		YearsPaid: 2,
		TotalPaid: 250000,
		PerYear: []core.YearStatus{
			{Year: 2022, IsPaid: true, Amount: 100000, Payment: &payment},
			{Year: 2023, IsPaid: false, Amount: 200000},
			{Year: 2024, IsPaid: true, Amount: 150000},
		},
	}}

	f, err := BuildWorkbook(summaries, 2022, 2024)
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	wantHeaders := map[string]string{
		"A1": "No",
		"B1": "Nama Almarhum",
		"C1": "Blok",
		"D1": "Nomor Makam",
		"E1": "Iuran Tahunan",
		"F1": "Status 2022",
		"G1": "Status 2023",
		"H1": "Status 2024",
		"I1": "Total Dibayar",
		"J1": "Jumlah Tahun Lunas",
	}
	for cell, want := range wantHeaders {
		got, err := f.GetCellValue("Data Pembayaran", cell)
		if err != nil {
			t.Fatalf("read %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}

	wantRow := map[string]string{
		"A2": "1",
		"B2": "Haji Sulaiman",
		"C2": "A",
		"D2": "A-01",
		"E2": "Rp 200.000",
		"F2": "Lunas (Rp 100.000)",
		"G2": "Belum Bayar",
		"H2": "Lunas (Rp 150.000)",
		"I2": "Rp 250.000",
		"J2": "2",
	}
	for cell, want := range wantRow {
		got, err := f.GetCellValue("Data Pembayaran", cell)
		if err != nil {
			t.Fatalf("read %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}

func TestBuildWorkbookEmpty(t *testing.T) {
	f, err := BuildWorkbook(nil, 2024, 2024)
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Data Pembayaran", "A1")
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if got != "No" {
		t.Errorf("A1 = %q, want %q", got, "No")
	}
}

func TestBuildWorkbookInvertedRange(t *testing.T) {
	// An inverted range means no status columns; the fixed columns remain.
	f, err := BuildWorkbook(nil, 2024, 2022)
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Data Pembayaran", "F1")
	if err != nil {
		t.Fatalf("read F1: %v", err)
	}
	if got != "Total Dibayar" {
		t.Errorf("F1 = %q, want %q", got, "Total Dibayar")
	}
}
