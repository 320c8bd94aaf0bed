package scheduler

import (
	"context"
	"fmt"

	"github.com/midastechnical/storefront-sync/pkg/db/models"
	"github.com/midastechnical/storefront-sync/pkg/enums"
)

// DefaultTasks returns the stock task definitions. Existing rows with the
// same name are left untouched on seed, so operators can tune schedules
// without fighting the worker.
func DefaultTasks() []models.ScheduledTask {
	return []models.ScheduledTask{
		{Name: "health-check", ScheduleCron: "*/5 * * * *", TaskType: enums.TaskTypeHealthCheck, Enabled: true},
		{Name: "marketplace-reconcile", ScheduleCron: "*/30 * * * *", TaskType: enums.TaskTypeMarketplaceReconcile, Enabled: true},
		{Name: "order-status-sync", ScheduleCron: "*/15 * * * *", TaskType: enums.TaskTypeOrderStatusSync, Enabled: true},
		{Name: "data-refresh", ScheduleCron: "0 * * * *", TaskType: enums.TaskTypeDataRefresh, Enabled: true},
		{Name: "analytics-update", ScheduleCron: "30 1 * * *", TaskType: enums.TaskTypeAnalyticsUpdate, Enabled: true},
		{Name: "seo-update", ScheduleCron: "0 2 * * *", TaskType: enums.TaskTypeSEOUpdate, Enabled: true},
		{Name: "image-optimization", ScheduleCron: "0 3 * * *", TaskType: enums.TaskTypeImageOptimization, Enabled: true},
		{Name: "database-backup", ScheduleCron: "0 4 * * *", TaskType: enums.TaskTypeDatabaseBackup, Enabled: true},
	}
}

type taskSeeder interface {
	Seed(ctx context.Context, task *models.ScheduledTask) error
}

// SeedDefaults inserts any missing default task definitions.
func SeedDefaults(ctx context.Context, store taskSeeder) error {
	for _, task := range DefaultTasks() {
		task := task
		if err := store.Seed(ctx, &task); err != nil {
			return fmt.Errorf("seed task %q: %w", task.Name, err)
		}
	}
	return nil
}
