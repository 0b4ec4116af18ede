// Package export renders payment reports as xlsx workbooks for handoff
// to the foundation's administrators.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"astana/internal/core"
)

const sheetName = "Data Pembayaran"

// Filename names an export artifact after the moment it was generated.
func Filename(t time.Time) string {
	return fmt.Sprintf("Data_Pembayaran_%s_%s.xlsx", t.Format("20060102"), t.Format("1504"))
}

// BuildWorkbook lays out one row per grave with a status column for every
// year in the range. Paid cells show the historical amount; unpaid cells
// read "Belum Bayar".
func BuildWorkbook(summaries []core.GraveSummary, startYear, endYear int) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headers := []string{"No", "Nama Almarhum", "Blok", "Nomor Makam", "Iuran Tahunan"}
	for year := startYear; year <= endYear; year++ {
		headers = append(headers, fmt.Sprintf("Status %d", year))
	}
	headers = append(headers, "Total Dibayar", "Jumlah Tahun Lunas")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header %q: %w", h, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header %q: %w", h, err)
		}
	}

	for i, s := range summaries {
		row := i + 2
		values := []any{
			i + 1,
			s.Grave.DeceasedName,
			s.Grave.BlockCode,
			s.Grave.Number,
			core.FormatRupiah(s.Grave.AnnualFee),
		}
		for _, ys := range s.PerYear {
			values = append(values, statusCell(ys))
		}
		values = append(values, core.FormatRupiah(s.TotalPaid), s.YearsPaid)

		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	// Wide columns for names, compact for the rest.
	if err := f.SetColWidth(sheetName, "B", "B", 28); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	return f, nil
}

func statusCell(ys core.YearStatus) string {
	if ys.IsPaid {
		return fmt.Sprintf("Lunas (%s)", core.FormatRupiah(ys.Amount))
	}
	return "Belum Bayar"
}
