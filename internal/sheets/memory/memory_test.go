package memory

import (
	"context"
	"testing"

	"astana/internal/sheets"
)

func TestAppendReturnsSequentialRefs(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref1, err := s.Append(ctx, sheets.LedgerRow{BlockCode: "A", GraveNumber: "A-01", Year: 2024, Amount: 200000})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	ref2, err := s.Append(ctx, sheets.LedgerRow{BlockCode: "B", GraveNumber: "B-02", Year: 2024, Amount: 250000})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if ref1 != "mem:1" || ref2 != "mem:2" {
		t.Errorf("refs = %q, %q", ref1, ref2)
	}

	rows := s.Rows()
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].GraveNumber != "A-01" || rows[1].GraveNumber != "B-02" {
		t.Errorf("rows out of order: %+v", rows)
	}
}

func TestRowsReturnsCopy(t *testing.T) {
	s := New()
	s.Append(context.Background(), sheets.LedgerRow{BlockCode: "A"})

	rows := s.Rows()
	rows[0].BlockCode = "Z"

	if got := s.Rows()[0].BlockCode; got != "A" {
		t.Errorf("internal row mutated: %q", got)
	}
}
