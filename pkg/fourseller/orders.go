package fourseller

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/midastechnical/storefront-sync/pkg/enums"
)

// Order is a marketplace order as returned by the orders endpoint.
type Order struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Total     string    `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderFilters narrow the orders listing.
type OrderFilters struct {
	Limit    int
	Offset   int
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
}

type ordersResponse struct {
	Data []Order `json:"data"`
}

// TrackingInfo accompanies shipment status updates.
type TrackingInfo struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
}

type orderUpdateRequest struct {
	Status    string        `json:"status"`
	UpdatedAt time.Time     `json:"updated_at"`
	Tracking  *TrackingInfo `json:"tracking,omitempty"`
}

// ListOrders pulls marketplace orders, newest first.
func (c *Client) ListOrders(ctx context.Context, filters OrderFilters) ([]Order, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 100
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(filters.Offset))
	if filters.Status != "" {
		query.Set("status", filters.Status)
	}
	if filters.DateFrom != nil {
		query.Set("date_from", filters.DateFrom.UTC().Format(time.RFC3339))
	}
	if filters.DateTo != nil {
		query.Set("date_to", filters.DateTo.UTC().Format(time.RFC3339))
	}

	var resp ordersResponse
	err := c.call(ctx, enums.SyncActionListOrders, http.MethodGet, "/orders", query, nil, &resp, auditEntry{})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// UpdateOrderStatus pushes a status (and optional tracking) to the marketplace.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string, tracking *TrackingInfo) error {
	body := orderUpdateRequest{
		Status:    status,
		UpdatedAt: time.Now().UTC(),
		Tracking:  tracking,
	}
	return c.call(ctx, enums.SyncActionUpdateOrder, http.MethodPatch, "/orders/"+orderID, nil, body, nil,
		auditEntry{externalID: orderID})
}
