package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/midastechnical/storefront-sync/pkg/enums"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

const defaultRollupWindowDays = 30

type rollupStore interface {
	RefreshSalesRollups(ctx context.Context, since time.Time) (int, error)
}

type AnalyticsUpdateHandlerParams struct {
	Logger     *logger.Logger
	Store      rollupStore
	WindowDays int
}

// NewAnalyticsUpdateHandler recomputes the recent daily sales aggregates.
func NewAnalyticsUpdateHandler(params AnalyticsUpdateHandlerParams) (Handler, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("rollup store required")
	}
	window := params.WindowDays
	if window <= 0 {
		window = defaultRollupWindowDays
	}
	return &analyticsUpdateHandler{
		logg:   params.Logger,
		store:  params.Store,
		window: window,
		now:    time.Now,
	}, nil
}

type analyticsUpdateHandler struct {
	logg   *logger.Logger
	store  rollupStore
	window int
	now    func() time.Time
}

func (h *analyticsUpdateHandler) Type() enums.TaskType { return enums.TaskTypeAnalyticsUpdate }

func (h *analyticsUpdateHandler) Run(ctx context.Context) (string, error) {
	since := h.now().UTC().AddDate(0, 0, -h.window)
	days, err := h.store.RefreshSalesRollups(ctx, since)
	if err != nil {
		return "", fmt.Errorf("refresh sales rollups: %w", err)
	}
	return fmt.Sprintf("%d daily rollups refreshed", days), nil
}
