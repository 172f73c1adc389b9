package domain

import (
	"time"
)

// RunStatus represents the overall status of a sync run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// OperationStatus represents the status of an individual operation
type OperationStatus string

const (
	OperationStatusCompleted OperationStatus = "completed"
	OperationStatusFailed    OperationStatus = "failed"
	OperationStatusSkipped   OperationStatus = "skipped"
)

// OperationType identifies the type of operation
type OperationType string

const (
	OperationTypeListRefs  OperationType = "list_refs"
	OperationTypeDeleteRef OperationType = "delete_ref"
	OperationTypeCreateRef OperationType = "create_ref"
	OperationTypeSkipRef   OperationType = "skip_ref"
)

// RunReport records what a single sync run did.
type RunReport struct {
	RunID          string            `json:"run_id"`
	StartedAt      time.Time         `json:"started_at"`
	FinishedAt     *time.Time        `json:"finished_at,omitempty"`
	Owner          string            `json:"owner"`
	DeleteBranches bool              `json:"delete_branches"`
	DryRun         bool              `json:"dry_run"`
	Operations     []OperationRecord `json:"operations"`
	Status         RunStatus         `json:"status"`
	Error          string            `json:"error,omitempty"`
}

// OperationRecord represents a single remote operation or decision in the run
type OperationRecord struct {
	Type       OperationType   `json:"type"`
	Repository string          `json:"repository"`
	Branch     string          `json:"branch,omitempty"`
	SHA        string          `json:"sha,omitempty"`
	Status     OperationStatus `json:"status"`
	At         time.Time       `json:"at"`
	Error      string          `json:"error,omitempty"`
}

// NewRunReport creates a running report
func NewRunReport(runID, owner string, startedAt time.Time) *RunReport {
	return &RunReport{
		RunID:      runID,
		StartedAt:  startedAt,
		Owner:      owner,
		Operations: []OperationRecord{},
		Status:     RunStatusRunning,
	}
}

// Record appends operation records to the report
func (r *RunReport) Record(ops ...OperationRecord) {
	r.Operations = append(r.Operations, ops...)
}

// Complete marks the run as completed
func (r *RunReport) Complete(at time.Time) {
	r.FinishedAt = &at
	r.Status = RunStatusCompleted
}

// Fail marks the run as failed with the given error
func (r *RunReport) Fail(at time.Time, err error) {
	r.FinishedAt = &at
	r.Status = RunStatusFailed
	if err != nil {
		r.Error = err.Error()
	}
}

// Count returns how many completed operations of a type were recorded
func (r *RunReport) Count(opType OperationType) int {
	n := 0
	for _, op := range r.Operations {
		if op.Type == opType && op.Status != OperationStatusFailed {
			n++
		}
	}
	return n
}
