package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is a best-effort trail of user-triggered mutations. Appends are
// fire-and-forget; a failed append is only logged.
type AuditLog struct {
	ID        uint   `gorm:"primarykey"`
	Action    string `gorm:"not null"`
	Field     string
	Before    datatypes.JSON `gorm:"type:jsonb"`
	After     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
