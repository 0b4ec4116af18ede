package sheets

import "context"

// LedgerRow is one payment flattened for the off-site mirror sheet.
type LedgerRow struct {
	BlockCode    string
	GraveNumber  string
	DeceasedName string
	Year         int
	Amount       int64
	PaymentDate  string
	Method       string
}

// Ports for outbound adapters.
type (
	PaymentWriter interface {
		Append(ctx context.Context, row LedgerRow) (rowRef string, err error)
	}
)
