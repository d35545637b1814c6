// Package audit records an append-only trail of notable data changes.
package audit

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Event is one audit_log row.
type Event struct {
	ID        snowflake.ID      `gorm:"primaryKey"`
	EventType string            `gorm:"column:event_type;type:text;not null"`
	Table     string            `gorm:"column:table_name;type:text;not null"`
	RecordID  *string           `gorm:"column:record_id;type:text"`
	Details   datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Event) TableName() string { return "audit_log" }

// Recorder persists audit events. Recording is best-effort: failures are
// logged by the implementation and never surfaced to the caller's flow.
type Recorder interface {
	Record(ctx context.Context, eventType, tableName string, recordID string, details map[string]any)
}
