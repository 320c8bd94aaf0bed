package scheduler

import (
	"context"
	"fmt"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midastechnical/storefront-sync/pkg/db/models"
)

type fakeSeeder struct {
	seeded []string
	err    error
}

func (f *fakeSeeder) Seed(_ context.Context, task *models.ScheduledTask) error {
	if f.err != nil {
		return f.err
	}
	f.seeded = append(f.seeded, task.Name)
	return nil
}

func TestDefaultTasksAreWellFormed(t *testing.T) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

	seen := map[string]bool{}
	for _, task := range DefaultTasks() {
		require.False(t, seen[task.Name], "duplicate task name %s", task.Name)
		seen[task.Name] = true

		assert.True(t, task.TaskType.IsValid(), "task %s has invalid type", task.Name)
		_, err := parser.Parse(task.ScheduleCron)
		assert.NoError(t, err, "task %s has invalid schedule", task.Name)
	}
}

func TestSeedDefaultsInsertsEveryTask(t *testing.T) {
	store := &fakeSeeder{}

	err := SeedDefaults(context.Background(), store)
	require.NoError(t, err)
	assert.Len(t, store.seeded, len(DefaultTasks()))
}

func TestSeedDefaultsStopsOnStoreError(t *testing.T) {
	store := &fakeSeeder{err: fmt.Errorf("connection reset")}

	err := SeedDefaults(context.Background(), store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed task")
}
