package scheduler

import (
	"context"
	"fmt"

	"github.com/midastechnical/storefront-sync/pkg/enums"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

const defaultImageSizeThreshold = int64(500 * 1024)

type imageStore interface {
	FlagOversizedImages(ctx context.Context, thresholdBytes int64) (int64, error)
}

type ImageOptimizationHandlerParams struct {
	Logger         *logger.Logger
	Store          imageStore
	ThresholdBytes int64
}

// NewImageOptimizationHandler flags oversized listing images for the
// optimization pipeline to reprocess.
func NewImageOptimizationHandler(params ImageOptimizationHandlerParams) (Handler, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("image store required")
	}
	threshold := params.ThresholdBytes
	if threshold <= 0 {
		threshold = defaultImageSizeThreshold
	}
	return &imageOptimizationHandler{
		logg:      params.Logger,
		store:     params.Store,
		threshold: threshold,
	}, nil
}

type imageOptimizationHandler struct {
	logg      *logger.Logger
	store     imageStore
	threshold int64
}

func (h *imageOptimizationHandler) Type() enums.TaskType { return enums.TaskTypeImageOptimization }

func (h *imageOptimizationHandler) Run(ctx context.Context) (string, error) {
	flagged, err := h.store.FlagOversizedImages(ctx, h.threshold)
	if err != nil {
		return "", fmt.Errorf("flag oversized images: %w", err)
	}
	return fmt.Sprintf("%d images flagged for optimization", flagged), nil
}
