package model

import "time"

type ExecutionStatus string

const (
	ExecutionStatusSuccess  ExecutionStatus = "success"
	ExecutionStatusError    ExecutionStatus = "error"
	ExecutionStatusCanceled ExecutionStatus = "canceled"
	ExecutionStatusWaiting  ExecutionStatus = "waiting"
	ExecutionStatusRunning  ExecutionStatus = "running"
)

// Execution is one cached row of the remote execution log. Rows are only
// ever upserted by execution id, never deleted.
type Execution struct {
	ID          uint            `gorm:"primarykey"`
	ExecutionID string          `gorm:"uniqueIndex;not null"`
	OrderNumber *string         `gorm:"index"`
	WorkflowID  string          `gorm:"not null"`
	Status      ExecutionStatus `gorm:"not null"`
	Mode        *string
	StartedAt   *time.Time
	StoppedAt   *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Execution) TableName() string {
	return "workflow_executions"
}
