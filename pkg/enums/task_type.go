package enums

import "fmt"

// TaskType is the closed set of recurring jobs the sync worker can run.
// Adding a kind means adding a constant here and a handler in the scheduler
// registry; unknown strings are rejected at parse time.
type TaskType string

const (
	TaskTypeDataRefresh          TaskType = "data_refresh"
	TaskTypeDatabaseBackup       TaskType = "database_backup"
	TaskTypeImageOptimization    TaskType = "image_optimization"
	TaskTypeHealthCheck          TaskType = "health_check"
	TaskTypeAnalyticsUpdate      TaskType = "analytics_update"
	TaskTypeSEOUpdate            TaskType = "seo_update"
	TaskTypeMarketplaceReconcile TaskType = "marketplace_reconcile"
	TaskTypeOrderStatusSync      TaskType = "order_status_sync"
)

var validTaskTypes = []TaskType{
	TaskTypeDataRefresh,
	TaskTypeDatabaseBackup,
	TaskTypeImageOptimization,
	TaskTypeHealthCheck,
	TaskTypeAnalyticsUpdate,
	TaskTypeSEOUpdate,
	TaskTypeMarketplaceReconcile,
	TaskTypeOrderStatusSync,
}

// String implements fmt.Stringer.
func (t TaskType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TaskType.
func (t TaskType) IsValid() bool {
	for _, candidate := range validTaskTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTaskType converts raw input into a TaskType.
func ParseTaskType(value string) (TaskType, error) {
	for _, candidate := range validTaskTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid task type %q", value)
}
