package enums

import "fmt"

// TaskLogStatus tracks the lifecycle of a single task execution. Every
// execution moves from running to exactly one terminal state.
type TaskLogStatus string

const (
	TaskLogStatusRunning   TaskLogStatus = "running"
	TaskLogStatusCompleted TaskLogStatus = "completed"
	TaskLogStatusFailed    TaskLogStatus = "failed"
)

var validTaskLogStatuses = []TaskLogStatus{
	TaskLogStatusRunning,
	TaskLogStatusCompleted,
	TaskLogStatusFailed,
}

// String implements fmt.Stringer.
func (s TaskLogStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TaskLogStatus.
func (s TaskLogStatus) IsValid() bool {
	for _, candidate := range validTaskLogStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends an execution.
func (s TaskLogStatus) IsTerminal() bool {
	return s == TaskLogStatusCompleted || s == TaskLogStatusFailed
}

// ParseTaskLogStatus converts raw input into a TaskLogStatus.
func ParseTaskLogStatus(value string) (TaskLogStatus, error) {
	for _, candidate := range validTaskLogStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid task log status %q", value)
}
