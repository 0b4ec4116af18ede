package core

import "testing"

func TestFormatRupiah(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{1000, "Rp 1.000"},
		{200000, "Rp 200.000"},
		{1500000, "Rp 1.500.000"},
		{1234567890, "Rp 1.234.567.890"},
		{-200000, "-Rp 200.000"},
	}
	for _, tc := range cases {
		if got := FormatRupiah(tc.in); got != tc.want {
			t.Errorf("FormatRupiah(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGraveSummaryArrears(t *testing.T) {
	s := GraveSummary{
		Grave:     GraveWithBlock{AnnualFee: 200000},
		StartYear: 2022,
		EndYear:   2024,
		YearsPaid: 1,
	}
	if got := s.Arrears(); got != 400000 {
		t.Fatalf("arrears = %d, want 400000", got)
	}

	empty := GraveSummary{Grave: GraveWithBlock{AnnualFee: 200000}, StartYear: 2025, EndYear: 2024}
	if got := empty.Arrears(); got != 0 {
		t.Fatalf("empty range arrears = %d, want 0", got)
	}
}
