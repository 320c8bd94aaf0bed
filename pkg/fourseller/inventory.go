package fourseller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/midastechnical/storefront-sync/pkg/enums"
	pkgerrors "github.com/midastechnical/storefront-sync/pkg/errors"
)

type inventoryUpdateRequest struct {
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

type inventoryStatusResponse struct {
	Quantity int `json:"quantity"`
}

// UpdateInventory sets the tracked stock level for the listing. The quantity
// must be non-negative; an unknown external id surfaces as a non-retryable
// 404-class ChannelError.
func (c *Client) UpdateInventory(ctx context.Context, externalID string, quantity int) error {
	if externalID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "external product id is required")
	}
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be non-negative, got %d", quantity))
	}

	body := inventoryUpdateRequest{
		Quantity:  quantity,
		Timestamp: time.Now().UTC(),
	}
	return c.call(ctx, enums.SyncActionUpdateInventory, http.MethodPatch, "/products/"+externalID+"/inventory", nil, body, nil,
		auditEntry{externalID: externalID})
}

// GetInventory fetches the authoritative marketplace quantity for the listing.
func (c *Client) GetInventory(ctx context.Context, externalID string) (int, error) {
	if externalID == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "external product id is required")
	}

	var resp inventoryStatusResponse
	err := c.call(ctx, enums.SyncActionGetInventory, http.MethodGet, "/products/"+externalID+"/inventory", nil, nil, &resp,
		auditEntry{externalID: externalID})
	if err != nil {
		return 0, err
	}
	return resp.Quantity, nil
}
