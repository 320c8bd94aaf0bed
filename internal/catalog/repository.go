package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/midastechnical/storefront-sync/pkg/db/models"
)

// Repository handles catalog persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindProduct loads the product with its images.
func (r *Repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindMapping returns the product's channel mapping, or nil when unpublished.
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

// CreateMapping records a freshly published product.
func (r *Repository) CreateMapping(ctx context.Context, mapping *models.ChannelMapping) error {
	return r.db.WithContext(ctx).Create(mapping).Error
}

// DeleteMapping removes the mapping after an unpublish.
func (r *Repository) DeleteMapping(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.ChannelMapping{}).Error
}

// ListActiveUnpublished returns active products without a channel mapping.
func (r *Repository) ListActiveUnpublished(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 100
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("is_active = ?", true).
		Where("id NOT IN (?)", r.db.Model(&models.ChannelMapping{}).Select("product_id")).
		Order("created_at").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
