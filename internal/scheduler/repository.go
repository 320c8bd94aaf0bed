package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/midastechnical/storefront-sync/pkg/db/models"
	"github.com/midastechnical/storefront-sync/pkg/enums"
)

// ErrLogAlreadyFinished is returned when a task log is finished twice. Every
// execution gets exactly one terminal transition.
var ErrLogAlreadyFinished = errors.New("task log already finished")

// Repository persists scheduled task definitions and their execution history.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListEnabled returns the tasks the worker should schedule.
func (r *Repository) ListEnabled(ctx context.Context) ([]models.ScheduledTask, error) {
	var tasks []models.ScheduledTask
	err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("name").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByName loads one task definition.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.ScheduledTask, error) {
	var task models.ScheduledTask
	if err := r.db.WithContext(ctx).First(&task, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Seed inserts the task definition if no task with the same name exists.
// Existing rows keep their schedule and counters.
func (r *Repository) Seed(ctx context.Context, task *models.ScheduledTask) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(task).Error
}

// SetEnabled toggles a task definition.
func (r *Repository) SetEnabled(ctx context.Context, name string, enabled bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.ScheduledTask{}).
		Where("name = ?", name).
		Update("enabled", enabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// StartLog writes the running row for a fresh execution.
func (r *Repository) StartLog(ctx context.Context, taskID uuid.UUID, startedAt time.Time) (*models.TaskLog, error) {
	log := &models.TaskLog{
		TaskID:    taskID,
		Status:    enums.TaskLogStatusRunning,
		StartedAt: startedAt,
	}
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return nil, err
	}
	return log, nil
}

// FinishLog moves a running execution to its terminal status. The guard on the
// current status makes the transition happen at most once.
func (r *Repository) FinishLog(ctx context.Context, logID uuid.UUID, status enums.TaskLogStatus, message string, completedAt time.Time, execution time.Duration) error {
	if !status.IsTerminal() {
		return fmt.Errorf("status %q is not terminal", status)
	}
	executionMS := execution.Milliseconds()
	result := r.db.WithContext(ctx).
		Model(&models.TaskLog{}).
		Where("id = ? AND status = ?", logID, enums.TaskLogStatusRunning).
		Updates(map[string]any{
			"status":            status,
			"message":           message,
			"completed_at":      completedAt,
			"execution_time_ms": executionMS,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLogAlreadyFinished
	}
	return nil
}

// RecordRun bumps the task counters after a terminal transition. The run
// counter and exactly one of the outcome counters move together, so
// run_count stays equal to success_count + error_count.
func (r *Repository) RecordRun(ctx context.Context, taskID uuid.UUID, success bool, ranAt time.Time, nextRun *time.Time) error {
	outcomeColumn := "error_count"
	if success {
		outcomeColumn = "success_count"
	}
	return r.db.WithContext(ctx).
		Model(&models.ScheduledTask{}).
		Where("id = ?", taskID).
		Updates(map[string]any{
			"run_count":    gorm.Expr("run_count + 1"),
			outcomeColumn:  gorm.Expr(outcomeColumn + " + 1"),
			"last_run":     ranAt,
			"next_run":     nextRun,
		}).Error
}

// ListLogs returns a task's execution history, newest first.
func (r *Repository) ListLogs(ctx context.Context, taskID uuid.UUID, limit int) ([]models.TaskLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var logs []models.TaskLog
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("started_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// StuckRunning returns executions still marked running that started before
// the cutoff. These indicate a worker crash mid-execution.
func (r *Repository) StuckRunning(ctx context.Context, cutoff time.Time) ([]models.TaskLog, error) {
	var logs []models.TaskLog
	err := r.db.WithContext(ctx).
		Where("status = ? AND started_at < ?", enums.TaskLogStatusRunning, cutoff).
		Order("started_at").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
