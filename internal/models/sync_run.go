package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RunOutcomeSuccess = "success"
	RunOutcomeFailure = "failure"
)

// SyncRun records the terminal outcome of one synchronization invocation.
type SyncRun struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Outcome    string    `gorm:"size:20;index" json:"outcome"` // success, failure
	Message    string    `gorm:"size:500" json:"message"`
	Fetched    int       `json:"fetched"`
	Normalized int       `json:"normalized"`
	Upserted   int       `json:"upserted"`
	Removed    int       `json:"removed"`
	Swept      int       `json:"swept"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// TableName specifies the table name for SyncRun model
func (SyncRun) TableName() string {
	return "sync_runs"
}
