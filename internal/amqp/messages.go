package amqp

import (
	"encoding/json"
	"time"
)

// PaymentSyncMessage asks the mirror worker to copy one payment row to the
// off-site ledger. It carries only identifiers; the worker reads the full
// payment from the database so the mirror never sees stale message payloads.
type PaymentSyncMessage struct {
	PaymentID int64     `json:"payment_id"`
	GraveID   int64     `json:"grave_id"`
	Year      int       `json:"year"`
	Timestamp time.Time `json:"timestamp"`
}

func NewPaymentSyncMessage(paymentID, graveID int64, year int) *PaymentSyncMessage {
	return &PaymentSyncMessage{
		PaymentID: paymentID,
		GraveID:   graveID,
		Year:      year,
		Timestamp: time.Now(),
	}
}

func (m *PaymentSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PaymentSyncMessageFromJSON(data []byte) (*PaymentSyncMessage, error) {
	var msg PaymentSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
