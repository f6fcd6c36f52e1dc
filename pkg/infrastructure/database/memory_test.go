package database

import (
	"context"
	"testing"

	shared "github.com/stravarunart/runart-server/pkg"
	"github.com/stravarunart/runart-server/pkg/execution"
)

// Both adapters back the shared wiring interface.
var (
	_ shared.Database = (*FirestoreAdapter)(nil)
	_ shared.Database = (*MemoryAdapter)(nil)
)

func TestMemoryAdapter_SetAndUpdate(t *testing.T) {
	a := NewMemoryAdapter()
	ctx := context.Background()

	record := &execution.Record{
		ExecutionID: "runart-pipeline-1",
		Service:     "runart-pipeline",
		Status:      execution.StatusStarted,
	}
	if err := a.SetExecution(ctx, record); err != nil {
		t.Fatalf("SetExecution() error = %v", err)
	}

	err := a.UpdateExecution(ctx, "runart-pipeline-1", map[string]interface{}{
		"status":        string(execution.StatusPartial),
		"error_message": "update failed",
		"outputs_json":  `{"image_key":"1_2"}`,
	})
	if err != nil {
		t.Fatalf("UpdateExecution() error = %v", err)
	}

	got, ok := a.Record("runart-pipeline-1")
	if !ok {
		t.Fatal("record missing")
	}
	if got.Status != execution.StatusPartial {
		t.Errorf("Status = %s, want PARTIAL", got.Status)
	}
	if got.ErrorMessage != "update failed" {
		t.Errorf("ErrorMessage = %q", got.ErrorMessage)
	}
	if got.OutputsJSON != `{"image_key":"1_2"}` {
		t.Errorf("OutputsJSON = %q", got.OutputsJSON)
	}
}

func TestMemoryAdapter_UpdateUnknownID(t *testing.T) {
	a := NewMemoryAdapter()
	if err := a.UpdateExecution(context.Background(), "missing", map[string]interface{}{"status": "FAILED"}); err != nil {
		t.Fatalf("UpdateExecution() error = %v", err)
	}
	if _, ok := a.Record("missing"); ok {
		t.Error("update alone should not create a record")
	}
}
