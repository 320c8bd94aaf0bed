package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/midastechnical/storefront-sync/api/responses"
	"github.com/midastechnical/storefront-sync/pkg/db/models"
	pkgerrors "github.com/midastechnical/storefront-sync/pkg/errors"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

// TaskStore is the scheduled-task surface the controllers call.
type TaskStore interface {
	ListEnabled(ctx context.Context) ([]models.ScheduledTask, error)
	FindByName(ctx context.Context, name string) (*models.ScheduledTask, error)
	SetEnabled(ctx context.Context, name string, enabled bool) error
	ListLogs(ctx context.Context, taskID uuid.UUID, limit int) ([]models.TaskLog, error)
}

type taskResponse struct {
	Name         string     `json:"name"`
	ScheduleCron string     `json:"schedule_cron"`
	TaskType     string     `json:"task_type"`
	Enabled      bool       `json:"enabled"`
	LastRun      *time.Time `json:"last_run"`
	NextRun      *time.Time `json:"next_run"`
	RunCount     int        `json:"run_count"`
	SuccessCount int        `json:"success_count"`
	ErrorCount   int        `json:"error_count"`
}

func toTaskResponse(task models.ScheduledTask) taskResponse {
	return taskResponse{
		Name:         task.Name,
		ScheduleCron: task.ScheduleCron,
		TaskType:     task.TaskType.String(),
		Enabled:      task.Enabled,
		LastRun:      task.LastRun,
		NextRun:      task.NextRun,
		RunCount:     task.RunCount,
		SuccessCount: task.SuccessCount,
		ErrorCount:   task.ErrorCount,
	}
}

// ListTasks returns the enabled task definitions with their counters.
func ListTasks(store TaskStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "task store unavailable"))
			return
		}

		tasks, err := store.ListEnabled(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list tasks"))
			return
		}
		out := make([]taskResponse, 0, len(tasks))
		for _, task := range tasks {
			out = append(out, toTaskResponse(task))
		}
		responses.WriteSuccess(w, out)
	}
}

// TaskLogs returns the execution history for one task.
func TaskLogs(store TaskStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "task store unavailable"))
			return
		}

		task, err := store.FindByName(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "task not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load task"))
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		logs, err := store.ListLogs(r.Context(), task.ID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list task logs"))
			return
		}
		responses.WriteSuccess(w, logs)
	}
}

// SetTaskEnabled toggles a task definition on or off.
func SetTaskEnabled(store TaskStore, enabled bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "task store unavailable"))
			return
		}

		name := chi.URLParam(r, "name")
		if err := store.SetEnabled(r.Context(), name, enabled); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "task not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update task"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"name": name, "enabled": enabled})
	}
}
