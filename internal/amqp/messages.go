package amqp

import (
	"encoding/json"
	"time"
)

// TransactionExportMessage asks the export worker to push one transaction
// to the external sheet. Only the ID travels; the worker reloads the row so
// it always exports current data.
type TransactionExportMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionExportMessage(id int64) *TransactionExportMessage {
	return &TransactionExportMessage{ID: id, Timestamp: time.Now()}
}

func (m *TransactionExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionExportMessageFromJSON(data []byte) (*TransactionExportMessage, error) {
	var m TransactionExportMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// BillReminderMessage notifies downstream consumers that a recurring bill
// is coming due.
type BillReminderMessage struct {
	UserID      int64     `json:"user_id"`
	BillID      int64     `json:"bill_id"`
	Name        string    `json:"name"`
	AmountCents int64     `json:"amount_cents"`
	DueDate     string    `json:"due_date"` // YYYY-MM-DD
	Timestamp   time.Time `json:"timestamp"`
}

func (m *BillReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BillReminderMessageFromJSON(data []byte) (*BillReminderMessage, error) {
	var m BillReminderMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
