package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/midastechnical/storefront-sync/pkg/enums"
)

// TaskLog is the per-execution history of a scheduled task. A row is written
// with status running before the handler starts, so a crash mid-execution is
// visible as a stuck running row rather than silently lost.
type TaskLog struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TaskID          uuid.UUID           `gorm:"column:task_id;type:uuid;not null;index"`
	Status          enums.TaskLogStatus `gorm:"column:status;not null"`
	Message         string              `gorm:"column:message;not null;default:''"`
	ExecutionTimeMS *int64              `gorm:"column:execution_time_ms"`
	StartedAt       time.Time           `gorm:"column:started_at;not null"`
	CompletedAt     *time.Time          `gorm:"column:completed_at"`
}
