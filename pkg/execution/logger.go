// Package execution records an audit trail of pipeline runs.
package execution

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Status of a recorded execution.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusStarted Status = "STARTED"
	StatusSuccess Status = "SUCCESS"
	// StatusPartial marks runs where the image was generated and persisted
	// but the description write-back failed.
	StatusPartial Status = "PARTIAL"
	StatusFailed  Status = "FAILED"
)

// Record is one execution of the generation pipeline.
type Record struct {
	ExecutionID  string    `json:"execution_id" firestore:"execution_id"`
	Service      string    `json:"service" firestore:"service"`
	Status       Status    `json:"status" firestore:"status"`
	TriggerType  string    `json:"trigger_type" firestore:"trigger_type"`
	StartTime    time.Time `json:"start_time" firestore:"start_time"`
	EndTime      time.Time `json:"end_time,omitempty" firestore:"end_time,omitempty"`
	InputsJSON   string    `json:"inputs_json,omitempty" firestore:"inputs_json,omitempty"`
	OutputsJSON  string    `json:"outputs_json,omitempty" firestore:"outputs_json,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty" firestore:"error_message,omitempty"`
}

// Database interface for execution record storage.
type Database interface {
	SetExecution(ctx context.Context, record *Record) error
	UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error
}

// Options contains optional fields for execution logging.
type Options struct {
	TriggerType string
	Inputs      interface{}
}

// LogStart creates an execution record with STARTED status and captured inputs.
func LogStart(ctx context.Context, db Database, service string, opts Options) (string, error) {
	execID := fmt.Sprintf("%s-%d", service, time.Now().UnixNano())

	record := &Record{
		ExecutionID: execID,
		Service:     service,
		Status:      StatusStarted,
		TriggerType: opts.TriggerType,
		StartTime:   time.Now().UTC(),
	}

	if opts.Inputs != nil {
		if inputsJSON, err := json.Marshal(opts.Inputs); err == nil {
			record.InputsJSON = string(inputsJSON)
		}
	}

	if err := db.SetExecution(ctx, record); err != nil {
		return execID, fmt.Errorf("failed to log execution start: %w", err)
	}

	return execID, nil
}

// LogSuccess updates an execution record with SUCCESS status.
func LogSuccess(ctx context.Context, db Database, execID string, outputs interface{}) error {
	return logTerminal(ctx, db, execID, StatusSuccess, outputs, nil)
}

// LogPartial updates an execution record with PARTIAL status, recording
// the update failure while keeping the run distinguishable from a total
// failure.
func LogPartial(ctx context.Context, db Database, execID string, outputs interface{}, cause error) error {
	return logTerminal(ctx, db, execID, StatusPartial, outputs, cause)
}

// LogFailure updates an execution record with FAILED status.
func LogFailure(ctx context.Context, db Database, execID string, cause error) error {
	return logTerminal(ctx, db, execID, StatusFailed, nil, cause)
}

func logTerminal(ctx context.Context, db Database, execID string, status Status, outputs interface{}, cause error) error {
	updates := map[string]interface{}{
		"status":   string(status),
		"end_time": time.Now().UTC(),
	}

	if cause != nil {
		updates["error_message"] = cause.Error()
	}

	if outputs != nil {
		if outputsJSON, err := json.Marshal(outputs); err == nil {
			updates["outputs_json"] = string(outputsJSON)
		}
	}

	if err := db.UpdateExecution(ctx, execID, updates); err != nil {
		return fmt.Errorf("failed to log execution %s: %w", status, err)
	}

	return nil
}
