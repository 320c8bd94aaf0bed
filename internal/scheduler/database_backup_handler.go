package scheduler

import (
	"context"
	"fmt"

	"github.com/midastechnical/storefront-sync/pkg/enums"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

type backupStore interface {
	CreateBackupMarker(ctx context.Context, label string) error
}

type DatabaseBackupHandlerParams struct {
	Logger *logger.Logger
	Store  backupStore
	Label  string
}

// NewDatabaseBackupHandler records a marker for the out-of-band backup run so
// operators can audit the cadence from the database itself.
func NewDatabaseBackupHandler(params DatabaseBackupHandlerParams) (Handler, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("backup store required")
	}
	label := params.Label
	if label == "" {
		label = "daily"
	}
	return &databaseBackupHandler{
		logg:  params.Logger,
		store: params.Store,
		label: label,
	}, nil
}

type databaseBackupHandler struct {
	logg  *logger.Logger
	store backupStore
	label string
}

func (h *databaseBackupHandler) Type() enums.TaskType { return enums.TaskTypeDatabaseBackup }

func (h *databaseBackupHandler) Run(ctx context.Context) (string, error) {
	if err := h.store.CreateBackupMarker(ctx, h.label); err != nil {
		return "", fmt.Errorf("record backup marker: %w", err)
	}
	return fmt.Sprintf("backup marker %q recorded", h.label), nil
}
