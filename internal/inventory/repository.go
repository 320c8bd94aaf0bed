package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/midastechnical/storefront-sync/pkg/db/models"
)

// Repository wires together the inventory persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindProduct loads the product without associations.
func (r *Repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateStock sets the product's stock quantity.
func (r *Repository) UpdateStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock_quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindMapping returns the product's channel mapping, or nil when the product
// has never been published to the channel.
func (r *Repository) FindMapping(ctx context.Context, productID uuid.UUID) (*models.ChannelMapping, error) {
	var mapping models.ChannelMapping
	err := r.db.WithContext(ctx).First(&mapping, "product_id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mapping, nil
}

// ListMappings returns every channel mapping.
func (r *Repository) ListMappings(ctx context.Context) ([]models.ChannelMapping, error) {
	var mappings []models.ChannelMapping
	if err := r.db.WithContext(ctx).Order("created_at").Find(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}

// CreateMapping records a freshly published product.
func (r *Repository) CreateMapping(ctx context.Context, mapping *models.ChannelMapping) error {
	return r.db.WithContext(ctx).Create(mapping).Error
}

// DeleteMapping removes the association when a product is unpublished.
func (r *Repository) DeleteMapping(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.ChannelMapping{}).Error
}

// AppendChange writes one immutable inventory change record.
func (r *Repository) AppendChange(ctx context.Context, change *models.InventoryChange) error {
	return r.db.WithContext(ctx).Create(change).Error
}

// ListChanges returns the change history for a product, newest first.
func (r *Repository) ListChanges(ctx context.Context, productID uuid.UUID, limit int) ([]models.InventoryChange, error) {
	if limit <= 0 {
		limit = 50
	}
	var changes []models.InventoryChange
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&changes).Error
	if err != nil {
		return nil, err
	}
	return changes, nil
}
