package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ImportStatusDone             = "DONE"
	ImportStatusDoneWithWarnings = "DONE_WITH_WARNINGS"
	ImportStatusSkipped          = "SKIPPED"
	ImportStatusFatal            = "FATAL"
)

// ImportRun is the ledger entry written for every execution of the seed command.
type ImportRun struct {
	ID          uuid.UUID `json:"id"`
	SourcePath  string    `json:"source_path"`
	Checksum    string    `json:"checksum"`
	RecordCount int       `json:"record_count"`
	RowCount    int       `json:"row_count"`
	Warnings    []string  `json:"warnings,omitempty"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}
