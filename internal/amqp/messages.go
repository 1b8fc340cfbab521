package amqp

import (
	"encoding/json"
	"time"
)

// ImportSyncMessage tells the worker that an import batch landed in the
// local store. It carries only the batch identity; the worker reads the
// actual pending rows from SQLite.
type ImportSyncMessage struct {
	BatchID   string    `json:"batch_id"`
	Rows      int       `json:"rows"`
	Timestamp time.Time `json:"timestamp"`
}

func NewImportSyncMessage(batchID string, rows int) *ImportSyncMessage {
	return &ImportSyncMessage{
		BatchID:   batchID,
		Rows:      rows,
		Timestamp: time.Now(),
	}
}

func (m *ImportSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ImportSyncMessageFromJSON(data []byte) (*ImportSyncMessage, error) {
	var msg ImportSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
