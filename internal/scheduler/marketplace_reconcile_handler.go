package scheduler

import (
	"context"
	"fmt"

	"github.com/midastechnical/storefront-sync/internal/inventory"
	"github.com/midastechnical/storefront-sync/pkg/enums"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

type inventoryReconciler interface {
	ReconcileFromMarketplace(ctx context.Context) (*inventory.ReconcileSummary, error)
}

type MarketplaceReconcileHandlerParams struct {
	Logger    *logger.Logger
	Inventory inventoryReconciler
}

// NewMarketplaceReconcileHandler pulls authoritative quantities from the
// marketplace and applies any drift locally.
func NewMarketplaceReconcileHandler(params MarketplaceReconcileHandlerParams) (Handler, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	return &marketplaceReconcileHandler{
		logg:      params.Logger,
		inventory: params.Inventory,
	}, nil
}

type marketplaceReconcileHandler struct {
	logg      *logger.Logger
	inventory inventoryReconciler
}

func (h *marketplaceReconcileHandler) Type() enums.TaskType {
	return enums.TaskTypeMarketplaceReconcile
}

func (h *marketplaceReconcileHandler) Run(ctx context.Context) (string, error) {
	summary, err := h.inventory.ReconcileFromMarketplace(ctx)
	if err != nil {
		return "", err
	}
	message := fmt.Sprintf("%d mapped products, %d synced, %d failed",
		summary.Total, summary.Synced, summary.Failed)
	if summary.Failed > 0 {
		return "", fmt.Errorf("reconcile finished with failures: %s", message)
	}
	return message, nil
}
