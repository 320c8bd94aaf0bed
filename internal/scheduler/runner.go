package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/midastechnical/storefront-sync/pkg/db/models"
	"github.com/midastechnical/storefront-sync/pkg/enums"
	"github.com/midastechnical/storefront-sync/pkg/logger"
	"github.com/midastechnical/storefront-sync/pkg/metrics"
)

const (
	defaultReloadEvery = 5 * time.Minute

	// Executions still marked running after this long are presumed to
	// belong to a crashed worker.
	stuckRunningAfter = time.Hour
)

// taskStore is the persistence surface the runner needs. *Repository
// satisfies it.
type taskStore interface {
	ListEnabled(ctx context.Context) ([]models.ScheduledTask, error)
	StartLog(ctx context.Context, taskID uuid.UUID, startedAt time.Time) (*models.TaskLog, error)
	FinishLog(ctx context.Context, logID uuid.UUID, status enums.TaskLogStatus, message string, completedAt time.Time, execution time.Duration) error
	RecordRun(ctx context.Context, taskID uuid.UUID, success bool, ranAt time.Time, nextRun *time.Time) error
	StuckRunning(ctx context.Context, cutoff time.Time) ([]models.TaskLog, error)
}

// RunnerParams configure the task runner.
type RunnerParams struct {
	Logger      *logger.Logger
	Store       taskStore
	Registry    *Registry
	Lock        Lock
	Metrics     *metrics.TaskMetrics
	ReloadEvery time.Duration
}

// Runner loads enabled task definitions, computes each one's next fire time
// from its cron expression and executes due tasks. Definitions are reloaded
// periodically so schedule edits take effect without a restart.
type Runner struct {
	logg        *logger.Logger
	store       taskStore
	registry    *Registry
	lock        Lock
	metrics     *metrics.TaskMetrics
	reloadEvery time.Duration
	parser      cron.Parser
	now         func() time.Time

	entries map[uuid.UUID]*taskEntry
	running sync.WaitGroup
}

type taskEntry struct {
	task     models.ScheduledTask
	schedule cron.Schedule
	next     time.Time
}

// NewRunner builds a task runner.
func NewRunner(params RunnerParams) (*Runner, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("task store required")
	}
	if params.Registry == nil {
		return nil, fmt.Errorf("registry required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	reloadEvery := params.ReloadEvery
	if reloadEvery <= 0 {
		reloadEvery = defaultReloadEvery
	}
	return &Runner{
		logg:        params.Logger,
		store:       params.Store,
		registry:    params.Registry,
		lock:        params.Lock,
		metrics:     params.Metrics,
		reloadEvery: reloadEvery,
		parser:      cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		now:         time.Now,
		entries:     make(map[uuid.UUID]*taskEntry),
	}, nil
}

// Run drives the scheduling loop until the context is canceled.
func (r *Runner) Run(ctx context.Context) error {
	r.reportStuck(ctx)
	if err := r.reload(ctx); err != nil {
		r.logg.Error(ctx, "loading task definitions failed", err)
	}
	nextReload := r.now().Add(r.reloadEvery)

	for {
		wake := r.nextWake(nextReload)
		timer := time.NewTimer(time.Until(wake))
		select {
		case <-ctx.Done():
			timer.Stop()
			r.logg.Info(ctx, "task runner context canceled, draining executions")
			r.running.Wait()
			return ctx.Err()
		case <-timer.C:
		}

		now := r.now()
		if !now.Before(nextReload) {
			if err := r.reload(ctx); err != nil {
				r.logg.Error(ctx, "loading task definitions failed", err)
			}
			nextReload = now.Add(r.reloadEvery)
		}
		r.runDue(ctx, now)
	}
}

// reportStuck surfaces executions left in the running state by a crashed
// worker so an operator can investigate. They are reported, not repaired;
// the rows keep their running status.
func (r *Runner) reportStuck(ctx context.Context) {
	stuck, err := r.store.StuckRunning(ctx, r.now().Add(-stuckRunningAfter))
	if err != nil {
		r.logg.Error(ctx, "checking for stuck executions failed", err)
		return
	}
	for _, log := range stuck {
		logCtx := r.logg.WithFields(ctx, map[string]any{
			"taskId":    log.TaskID.String(),
			"logId":     log.ID.String(),
			"startedAt": log.StartedAt,
		})
		r.logg.Warn(logCtx, "execution stuck in running state")
	}
}

// reload replaces the in-memory schedule with the enabled definitions. Fire
// times already computed for unchanged tasks are kept so a reload never
// causes a double run.
func (r *Runner) reload(ctx context.Context) error {
	tasks, err := r.store.ListEnabled(ctx)
	if err != nil {
		return fmt.Errorf("list enabled tasks: %w", err)
	}

	now := r.now()
	entries := make(map[uuid.UUID]*taskEntry, len(tasks))
	for _, task := range tasks {
		schedule, err := r.parser.Parse(task.ScheduleCron)
		if err != nil {
			taskCtx := r.logg.WithTask(ctx, task.Name)
			r.logg.Error(taskCtx, "invalid cron expression, task skipped", err)
			continue
		}
		entry := &taskEntry{task: task, schedule: schedule}
		if existing, ok := r.entries[task.ID]; ok && existing.task.ScheduleCron == task.ScheduleCron {
			entry.next = existing.next
		} else {
			entry.next = schedule.Next(now)
		}
		entries[task.ID] = entry
	}
	r.entries = entries
	r.logg.Info(r.logg.WithField(ctx, "tasks", len(entries)), "task definitions loaded")
	return nil
}

func (r *Runner) nextWake(nextReload time.Time) time.Time {
	wake := nextReload
	for _, entry := range r.entries {
		if entry.next.Before(wake) {
			wake = entry.next
		}
	}
	return wake
}

// runDue launches every due task on its own goroutine so a slow execution
// never delays the other tasks' fires. Same-task overlap is prevented by the
// per-task lock inside executeTask.
func (r *Runner) runDue(ctx context.Context, now time.Time) {
	for _, entry := range r.entries {
		if entry.next.After(now) {
			continue
		}
		entry.next = entry.schedule.Next(now)

		task := entry.task
		nextRun := entry.next
		r.running.Add(1)
		go func() {
			defer r.running.Done()
			r.executeTask(ctx, task, nextRun)
		}()
	}
}

// executeTask runs one task execution end to end: running log row, handler,
// exactly one terminal transition, counter bump. Handler errors and panics are
// contained here; nothing propagates to the scheduling loop.
func (r *Runner) executeTask(ctx context.Context, task models.ScheduledTask, nextRun time.Time) {
	taskCtx := r.logg.WithTask(ctx, task.Name)

	acquired, err := r.lock.Acquire(taskCtx, task.Name)
	if err != nil {
		r.logg.Error(taskCtx, "task lock acquire failed", err)
		return
	}
	if !acquired {
		r.logg.Info(taskCtx, "task held by another worker, skipping")
		return
	}
	defer func() {
		if err := r.lock.Release(taskCtx, task.Name); err != nil {
			r.logg.Error(taskCtx, "task lock release failed", err)
		}
	}()

	startedAt := r.now()
	log, err := r.store.StartLog(taskCtx, task.ID, startedAt)
	if err != nil {
		r.logg.Error(taskCtx, "writing running task log failed", err)
		return
	}
	r.logg.Info(taskCtx, "task execution started")

	message, runErr := r.runHandler(taskCtx, task.TaskType)
	completedAt := r.now()
	duration := completedAt.Sub(startedAt)

	status := enums.TaskLogStatusCompleted
	success := true
	if runErr != nil {
		status = enums.TaskLogStatusFailed
		success = false
		message = runErr.Error()
		r.logg.Error(taskCtx, "task execution failed", runErr)
	}

	if err := r.store.FinishLog(taskCtx, log.ID, status, message, completedAt, duration); err != nil {
		r.logg.Error(taskCtx, "finishing task log failed", err)
		return
	}
	if err := r.store.RecordRun(taskCtx, task.ID, success, startedAt, &nextRun); err != nil {
		r.logg.Error(taskCtx, "updating task counters failed", err)
	}

	r.observe(task.Name, duration, success)
	if success {
		r.logg.Info(r.logg.WithField(taskCtx, "duration_ms", duration.Milliseconds()), "task execution completed")
	}
}

// runHandler resolves and runs the handler, converting a panic into an error
// so the execution still reaches its terminal state.
func (r *Runner) runHandler(ctx context.Context, taskType enums.TaskType) (message string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("task handler panicked: %v", recovered)
		}
	}()

	handler, err := r.registry.Resolve(taskType)
	if err != nil {
		return "", err
	}
	return handler.Run(ctx)
}

func (r *Runner) observe(task string, duration time.Duration, success bool) {
	if r.metrics == nil {
		return
	}
	r.metrics.ObserveDuration(task, duration)
	if success {
		r.metrics.IncSuccess(task)
		return
	}
	r.metrics.IncFailure(task)
}
