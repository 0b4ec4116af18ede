package core

// YearStatus is the paid/unpaid ledger state of one grave for one year.
// Amount is the recorded payment when paid, otherwise the block's current
// annual fee (the amount currently due).
type YearStatus struct {
	Year    int      `json:"year"`
	IsPaid  bool     `json:"is_paid"`
	Amount  int64    `json:"amount"`
	Payment *Payment `json:"payment,omitempty"`
}

// GraveWithPayments pairs a grave with its ledger state for the few most
// recent years, as shown on the listing screen.
type GraveWithPayments struct {
	GraveWithBlock
	RecentPayments []YearStatus `json:"recent_payments"`
}

// GraveSummary folds a grave's ledger over an inclusive year range.
type GraveSummary struct {
	Grave     GraveWithBlock `json:"grave"`
	StartYear int            `json:"start_year"`
	EndYear   int            `json:"end_year"`
	YearsPaid int            `json:"years_paid"`
	TotalPaid int64          `json:"total_paid"`
	PerYear   []YearStatus   `json:"per_year"`
}

// Arrears is the unpaid-year count times the block's current annual fee.
// Paid years keep their historical amount; arrears never reprice them.
func (s GraveSummary) Arrears() int64 {
	span := s.EndYear - s.StartYear + 1
	if span < 0 {
		span = 0
	}
	unpaid := int64(span - s.YearsPaid)
	if unpaid < 0 {
		unpaid = 0
	}
	return unpaid * s.Grave.AnnualFee
}

// BlockStats reports plot occupancy for one block.
type BlockStats struct {
	TotalCapacity int64 `json:"total_capacity"`
	Occupied      int64 `json:"occupied"`
	Available     int64 `json:"available"`
}

// DatabaseStats is shown on the frontend's maintenance screen.
type DatabaseStats struct {
	GravesCount   int64 `json:"graves_count"`
	HeirsCount    int64 `json:"heirs_count"`
	PaymentsCount int64 `json:"payments_count"`
	SizeBytes     int64 `json:"size_bytes"`
}

// TotalRecords sums the entity counters.
func (s DatabaseStats) TotalRecords() int64 {
	return s.GravesCount + s.HeirsCount + s.PaymentsCount
}
