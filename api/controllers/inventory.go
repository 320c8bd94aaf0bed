package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/midastechnical/storefront-sync/api/responses"
	"github.com/midastechnical/storefront-sync/api/validators"
	"github.com/midastechnical/storefront-sync/internal/inventory"
	"github.com/midastechnical/storefront-sync/pkg/db/models"
	"github.com/midastechnical/storefront-sync/pkg/enums"
	pkgerrors "github.com/midastechnical/storefront-sync/pkg/errors"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

// InventoryService is the inventory surface the controllers call.
type InventoryService interface {
	UpdateAcrossChannels(ctx context.Context, productID uuid.UUID, quantity int, source enums.SyncSource) (*inventory.SyncResult, error)
	ReconcileFromMarketplace(ctx context.Context) (*inventory.ReconcileSummary, error)
	Changes(ctx context.Context, productID uuid.UUID, limit int) ([]models.InventoryChange, error)
}

type updateInventoryRequest struct {
	Quantity int    `json:"quantity" validate:"min=0"`
	Source   string `json:"source" validate:"required"`
}

type updateInventoryResponse struct {
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	ChannelSynced  bool   `json:"channel_synced"`
	ChannelSkipped bool   `json:"channel_skipped"`
	ChannelError   string `json:"channel_error,omitempty"`
}

// UpdateInventory applies a stock change and fans it out to the marketplace.
func UpdateInventory(svc InventoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		source, err := enums.ParseSyncSource(payload.Source)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid source"))
			return
		}

		result, err := svc.UpdateAcrossChannels(r.Context(), productID, payload.Quantity, source)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := updateInventoryResponse{
			ProductID:      result.ProductID.String(),
			Quantity:       result.Quantity,
			ChannelSynced:  result.ChannelSynced,
			ChannelSkipped: result.ChannelSkipped,
		}
		if result.ChannelError != nil {
			resp.ChannelError = result.ChannelError.Error()
		}
		responses.WriteSuccess(w, resp)
	}
}

// InventoryChanges returns a product's change history.
func InventoryChanges(svc InventoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		changes, err := svc.Changes(r.Context(), productID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, changes)
	}
}

type reconcileResponse struct {
	Total  int `json:"total"`
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

// ReconcileInventory triggers a full marketplace reconciliation on demand.
func ReconcileInventory(svc InventoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		summary, err := svc.ReconcileFromMarketplace(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reconcileResponse{
			Total:  summary.Total,
			Synced: summary.Synced,
			Failed: summary.Failed,
		})
	}
}
