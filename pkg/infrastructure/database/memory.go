package database

import (
	"context"
	"sync"

	"github.com/stravarunart/runart-server/pkg/execution"
)

// MemoryAdapter keeps execution records in process memory. It backs local
// runs where no Firestore project is configured.
type MemoryAdapter struct {
	mu      sync.Mutex
	records map[string]*execution.Record
	updates map[string][]map[string]interface{}
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		records: make(map[string]*execution.Record),
		updates: make(map[string][]map[string]interface{}),
	}
}

func (a *MemoryAdapter) SetExecution(ctx context.Context, record *execution.Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records[record.ExecutionID] = record
	return nil
}

func (a *MemoryAdapter) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.updates[id] = append(a.updates[id], data)
	if rec, ok := a.records[id]; ok {
		if status, ok := data["status"].(string); ok {
			rec.Status = execution.Status(status)
		}
		if msg, ok := data["error_message"].(string); ok {
			rec.ErrorMessage = msg
		}
		if outputs, ok := data["outputs_json"].(string); ok {
			rec.OutputsJSON = outputs
		}
	}
	return nil
}

// Record returns the stored record for inspection in tests.
func (a *MemoryAdapter) Record(id string) (*execution.Record, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rec, ok := a.records[id]
	return rec, ok
}
