package scheduler

import (
	"context"
	"fmt"

	"github.com/midastechnical/storefront-sync/pkg/enums"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

type sitemapStore interface {
	RewriteSitemap(ctx context.Context) (int, error)
}

type SEOUpdateHandlerParams struct {
	Logger *logger.Logger
	Store  sitemapStore
}

// NewSEOUpdateHandler rebuilds the sitemap from the active catalog.
func NewSEOUpdateHandler(params SEOUpdateHandlerParams) (Handler, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("sitemap store required")
	}
	return &seoUpdateHandler{
		logg:  params.Logger,
		store: params.Store,
	}, nil
}

type seoUpdateHandler struct {
	logg  *logger.Logger
	store sitemapStore
}

func (h *seoUpdateHandler) Type() enums.TaskType { return enums.TaskTypeSEOUpdate }

func (h *seoUpdateHandler) Run(ctx context.Context) (string, error) {
	entries, err := h.store.RewriteSitemap(ctx)
	if err != nil {
		return "", fmt.Errorf("rewrite sitemap: %w", err)
	}
	return fmt.Sprintf("sitemap rewritten with %d entries", entries), nil
}
