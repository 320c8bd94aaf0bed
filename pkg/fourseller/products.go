package fourseller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/midastechnical/storefront-sync/pkg/db/models"
	"github.com/midastechnical/storefront-sync/pkg/enums"
)

// ProductPayload is the marketplace wire format for a listing.
type ProductPayload struct {
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	SKU         string           `json:"sku"`
	Price       decimal.Decimal  `json:"price"`
	Currency    string           `json:"currency"`
	Category    string           `json:"category"`
	Brand       string           `json:"brand"`
	Condition   string           `json:"condition"`
	Images      []ImagePayload   `json:"images"`
	Inventory   InventoryPayload `json:"inventory"`
	Metadata    MetadataPayload  `json:"metadata"`
}

// ImagePayload describes one listing image.
type ImagePayload struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// InventoryPayload carries the tracked stock level.
type InventoryPayload struct {
	Quantity      int  `json:"quantity"`
	TrackQuantity bool `json:"track_quantity"`
}

// MetadataPayload tags payloads with their origin.
type MetadataPayload struct {
	Source        string    `json:"source"`
	SyncTimestamp time.Time `json:"sync_timestamp"`
}

type productResponse struct {
	ID string `json:"id"`
}

// BuildProductPayload translates a local product into the marketplace format.
func BuildProductPayload(product models.Product) ProductPayload {
	payload := ProductPayload{
		Title:     product.Name,
		SKU:       product.SKU,
		Price:     product.Price,
		Currency:  "USD",
		Category:  product.Category,
		Brand:     product.Brand,
		Condition: product.Condition,
		Images:    make([]ImagePayload, 0, len(product.Images)),
		Inventory: InventoryPayload{
			Quantity:      product.StockQuantity,
			TrackQuantity: true,
		},
		Metadata: MetadataPayload{
			Source:        "midastechnical",
			SyncTimestamp: time.Now().UTC(),
		},
	}
	if product.Description != nil {
		payload.Description = *product.Description
	}
	for _, img := range product.Images {
		image := ImagePayload{URL: img.URL, Alt: product.Name}
		if img.Alt != nil && *img.Alt != "" {
			image.Alt = *img.Alt
		}
		payload.Images = append(payload.Images, image)
	}
	return payload
}

// CreateProduct publishes a listing and returns its marketplace id.
func (c *Client) CreateProduct(ctx context.Context, product models.Product) (string, error) {
	payload := BuildProductPayload(product)
	var resp productResponse
	err := c.call(ctx, enums.SyncActionCreateProduct, http.MethodPost, "/products", nil, payload, &resp,
		auditEntry{entityID: &product.ID})
	if err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("fourseller create_product: response carried no id")
	}
	return resp.ID, nil
}

// UpdateProduct pushes the current listing state to the marketplace.
func (c *Client) UpdateProduct(ctx context.Context, externalID string, product models.Product) error {
	payload := BuildProductPayload(product)
	return c.call(ctx, enums.SyncActionUpdateProduct, http.MethodPut, "/products/"+externalID, nil, payload, nil,
		auditEntry{entityID: &product.ID, externalID: externalID})
}

// DeleteProduct removes the listing from the marketplace.
func (c *Client) DeleteProduct(ctx context.Context, externalID string, productID *uuid.UUID) error {
	return c.call(ctx, enums.SyncActionDeleteProduct, http.MethodDelete, "/products/"+externalID, nil, nil, nil,
		auditEntry{entityID: productID, externalID: externalID})
}
