package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/midastechnical/storefront-sync/pkg/enums"
)

// ScheduledTask is a recurring job definition. Tasks are disabled instead of
// deleted so the counters keep their audit value. After every execution
// RunCount == SuccessCount + ErrorCount.
type ScheduledTask struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string         `gorm:"column:name;uniqueIndex;not null"`
	ScheduleCron string         `gorm:"column:schedule_cron;not null"`
	TaskType     enums.TaskType `gorm:"column:task_type;not null"`
	Enabled      bool           `gorm:"column:enabled;not null;default:true"`
	LastRun      *time.Time     `gorm:"column:last_run"`
	NextRun      *time.Time     `gorm:"column:next_run"`
	RunCount     int            `gorm:"column:run_count;not null;default:0"`
	SuccessCount int            `gorm:"column:success_count;not null;default:0"`
	ErrorCount   int            `gorm:"column:error_count;not null;default:0"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
