package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/midastechnical/storefront-sync/api/responses"
	"github.com/midastechnical/storefront-sync/internal/catalog"
	pkgerrors "github.com/midastechnical/storefront-sync/pkg/errors"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

// CatalogService is the catalog surface the controllers call.
type CatalogService interface {
	Publish(ctx context.Context, productID uuid.UUID) (*catalog.PublishResult, error)
	Unpublish(ctx context.Context, productID uuid.UUID) error
}

type publishResponse struct {
	ProductID  string `json:"product_id"`
	ExternalID string `json:"external_id"`
	Created    bool   `json:"created"`
}

// PublishProduct lists a product on the marketplace.
func PublishProduct(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		result, err := svc.Publish(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusOK
		if result.Created {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, publishResponse{
			ProductID:  result.ProductID.String(),
			ExternalID: result.ExternalID,
			Created:    result.Created,
		})
	}
}

// UnpublishProduct delists a product from the marketplace.
func UnpublishProduct(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := svc.Unpublish(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"product_id": productID.String(), "status": "delisted"})
	}
}
