package scheduler

import (
	"context"
	"fmt"

	"github.com/midastechnical/storefront-sync/internal/catalog"
	"github.com/midastechnical/storefront-sync/pkg/enums"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

const defaultPublishBatch = 100

type catalogRefreshStore interface {
	ReactivateInStock(ctx context.Context) (int64, error)
	DeactivateOutOfStock(ctx context.Context) (int64, error)
}

type catalogPublisher interface {
	PublishPending(ctx context.Context, limit int) (*catalog.PublishSummary, error)
}

type DataRefreshHandlerParams struct {
	Logger    *logger.Logger
	Store     catalogRefreshStore
	Publisher catalogPublisher
}

// NewDataRefreshHandler reconciles product visibility with stock levels:
// restocked products come back, sold-out products are hidden. Active
// products that were never listed on the marketplace get published.
func NewDataRefreshHandler(params DataRefreshHandlerParams) (Handler, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	if params.Publisher == nil {
		return nil, fmt.Errorf("catalog publisher required")
	}
	return &dataRefreshHandler{
		logg:      params.Logger,
		store:     params.Store,
		publisher: params.Publisher,
	}, nil
}

type dataRefreshHandler struct {
	logg      *logger.Logger
	store     catalogRefreshStore
	publisher catalogPublisher
}

func (h *dataRefreshHandler) Type() enums.TaskType { return enums.TaskTypeDataRefresh }

func (h *dataRefreshHandler) Run(ctx context.Context) (string, error) {
	reactivated, err := h.store.ReactivateInStock(ctx)
	if err != nil {
		return "", fmt.Errorf("reactivate products: %w", err)
	}
	deactivated, err := h.store.DeactivateOutOfStock(ctx)
	if err != nil {
		return "", fmt.Errorf("deactivate products: %w", err)
	}
	summary, err := h.publisher.PublishPending(ctx, defaultPublishBatch)
	if err != nil {
		return "", fmt.Errorf("publish pending products: %w", err)
	}
	if summary.Failed > 0 {
		return "", fmt.Errorf("%d of %d pending products failed to publish", summary.Failed, summary.Total)
	}
	return fmt.Sprintf("%d products reactivated, %d deactivated, %d published", reactivated, deactivated, summary.Published), nil
}
