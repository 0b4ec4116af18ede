package core

import "testing"

func TestCreateBlockRequestValidate(t *testing.T) {
	good := CreateBlockRequest{Code: "A", TotalCapacity: 50, AnnualFee: 200000, Status: StatusActive}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []CreateBlockRequest{
		{Code: "", TotalCapacity: 50, AnnualFee: 200000, Status: StatusActive},
		{Code: "AB", TotalCapacity: 50, AnnualFee: 200000, Status: StatusActive},
		{Code: "A", TotalCapacity: 0, AnnualFee: 200000, Status: StatusActive},
		{Code: "A", TotalCapacity: 50, AnnualFee: 0, Status: StatusActive},
		{Code: "A", TotalCapacity: 50, AnnualFee: 200000, Status: "archived"},
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCreateGraveRequestValidate(t *testing.T) {
	good := CreateGraveRequest{DeceasedName: "Ahmad", BlockID: 1, Number: "01", DateOfDeath: "2023-06-15"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []CreateGraveRequest{
		{DeceasedName: "", BlockID: 1, Number: "01", DateOfDeath: "2023-06-15"},
		{DeceasedName: "Ahmad", BlockID: 0, Number: "01", DateOfDeath: "2023-06-15"},
		{DeceasedName: "Ahmad", BlockID: 1, Number: "", DateOfDeath: "2023-06-15"},
		{DeceasedName: "Ahmad", BlockID: 1, Number: "01", DateOfDeath: "15-06-2023"},
		{DeceasedName: "Ahmad", BlockID: 1, Number: "01", DateOfDeath: "2023-06-15", BurialDate: "soon"},
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCreatePaymentRequestValidate(t *testing.T) {
	good := CreatePaymentRequest{GraveID: 1, Year: 2024, PaymentDate: "2024-03-01", Amount: 200000}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		req  CreatePaymentRequest
		want error
	}{
		{"missing date", CreatePaymentRequest{GraveID: 1, Year: 2024, Amount: 200000}, ErrInvalidDate},
		{"zero amount", CreatePaymentRequest{GraveID: 1, Year: 2024, PaymentDate: "2024-03-01", Amount: 0}, ErrInvalidAmount},
		{"negative amount", CreatePaymentRequest{GraveID: 1, Year: 2024, PaymentDate: "2024-03-01", Amount: -5}, ErrInvalidAmount},
		{"no grave", CreatePaymentRequest{Year: 2024, PaymentDate: "2024-03-01", Amount: 200000}, ErrInvalidGrave},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.req.Validate(); err != tc.want {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreateHeirRequestValidate(t *testing.T) {
	if err := (CreateHeirRequest{FullName: "Siti", OrderNumber: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (CreateHeirRequest{FullName: "Siti", OrderNumber: 4}).Validate(); err != ErrInvalidHeirOrder {
		t.Fatalf("expected ErrInvalidHeirOrder, got %v", err)
	}
	if err := (CreateHeirRequest{FullName: " ", OrderNumber: 1}).Validate(); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}
