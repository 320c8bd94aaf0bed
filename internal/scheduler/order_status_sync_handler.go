package scheduler

import (
	"context"
	"fmt"

	"github.com/midastechnical/storefront-sync/internal/orders"
	"github.com/midastechnical/storefront-sync/pkg/enums"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

type orderStatusSyncer interface {
	SyncStatuses(ctx context.Context) (*orders.SyncSummary, error)
}

type OrderStatusSyncHandlerParams struct {
	Logger *logger.Logger
	Orders orderStatusSyncer
}

// NewOrderStatusSyncHandler mirrors marketplace order status onto local
// orders.
func NewOrderStatusSyncHandler(params OrderStatusSyncHandlerParams) (Handler, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	return &orderStatusSyncHandler{
		logg:   params.Logger,
		orders: params.Orders,
	}, nil
}

type orderStatusSyncHandler struct {
	logg   *logger.Logger
	orders orderStatusSyncer
}

func (h *orderStatusSyncHandler) Type() enums.TaskType { return enums.TaskTypeOrderStatusSync }

func (h *orderStatusSyncHandler) Run(ctx context.Context) (string, error) {
	summary, err := h.orders.SyncStatuses(ctx)
	if err != nil {
		return "", err
	}
	message := fmt.Sprintf("%d orders fetched, %d updated, %d skipped, %d failed",
		summary.Fetched, summary.Updated, summary.Skipped, summary.Failed)
	if summary.Failed > 0 {
		return "", fmt.Errorf("status sync finished with failures: %s", message)
	}
	return message, nil
}
