package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/midastechnical/storefront-sync/pkg/db/models"
	pkgerrors "github.com/midastechnical/storefront-sync/pkg/errors"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

// Store is the persistence surface the service needs. *Repository satisfies it.
type Store interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindMapping(ctx context.Context, productID uuid.UUID) (*models.ChannelMapping, error)
	CreateMapping(ctx context.Context, mapping *models.ChannelMapping) error
	DeleteMapping(ctx context.Context, productID uuid.UUID) error
	ListActiveUnpublished(ctx context.Context, limit int) ([]models.Product, error)
}

// ChannelClient is the marketplace surface the service needs.
type ChannelClient interface {
	CreateProduct(ctx context.Context, product models.Product) (string, error)
	UpdateProduct(ctx context.Context, externalID string, product models.Product) error
	DeleteProduct(ctx context.Context, externalID string, productID *uuid.UUID) error
}

// PublishResult reports the marketplace listing a publish produced.
type PublishResult struct {
	ProductID  uuid.UUID
	ExternalID string
	Created    bool
}

// PublishSummary aggregates a bulk publish pass.
type PublishSummary struct {
	Total     int
	Published int
	Failed    int
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Store   Store
	Channel ChannelClient
	Logger  *logger.Logger
}

// Service manages a product's lifecycle on the marketplace channel.
type Service struct {
	store   Store
	channel ChannelClient
	logger  *logger.Logger
}

// NewService validates the params and builds the service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("store required")
	}
	if params.Channel == nil {
		return nil, fmt.Errorf("channel client required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		store:   params.Store,
		channel: params.Channel,
		logger:  params.Logger,
	}, nil
}

// Publish lists the product on the marketplace and records the mapping. An
// already published product is updated in place instead of relisted.
func (s *Service) Publish(ctx context.Context, productID uuid.UUID) (*PublishResult, error) {
	ctx = s.logger.WithProductID(ctx, productID.String())

	product, err := s.store.FindProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inactive products cannot be published")
	}

	mapping, err := s.store.FindMapping(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load channel mapping")
	}
	if mapping != nil {
		if err := s.channel.UpdateProduct(ctx, mapping.FourSellerProductID, *product); err != nil {
			return nil, err
		}
		s.logger.Info(ctx, "marketplace listing updated")
		return &PublishResult{
			ProductID:  productID,
			ExternalID: mapping.FourSellerProductID,
		}, nil
	}

	externalID, err := s.channel.CreateProduct(ctx, *product)
	if err != nil {
		return nil, err
	}
	err = s.store.CreateMapping(ctx, &models.ChannelMapping{
		ProductID:           productID,
		Channel:             "fourseller",
		FourSellerProductID: externalID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store channel mapping")
	}

	s.logger.Info(ctx, "product published to marketplace")
	return &PublishResult{
		ProductID:  productID,
		ExternalID: externalID,
		Created:    true,
	}, nil
}

// PublishPending lists every active product that has no marketplace listing
// yet. A failure on one product never stops the pass.
func (s *Service) PublishPending(ctx context.Context, limit int) (*PublishSummary, error) {
	products, err := s.store.ListActiveUnpublished(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list unpublished products")
	}

	summary := &PublishSummary{Total: len(products)}
	for _, product := range products {
		if _, err := s.Publish(ctx, product.ID); err != nil {
			summary.Failed++
			s.logger.Error(s.logger.WithProductID(ctx, product.ID.String()), "bulk publish product failed", err)
			continue
		}
		summary.Published++
	}
	return summary, nil
}

// Unpublish delists the product and removes the mapping. Unpublishing a
// product that was never published is a no-op.
func (s *Service) Unpublish(ctx context.Context, productID uuid.UUID) error {
	ctx = s.logger.WithProductID(ctx, productID.String())

	mapping, err := s.store.FindMapping(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load channel mapping")
	}
	if mapping == nil {
		s.logger.Info(ctx, "product not published, nothing to delist")
		return nil
	}

	if err := s.channel.DeleteProduct(ctx, mapping.FourSellerProductID, &productID); err != nil {
		return err
	}
	if err := s.store.DeleteMapping(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove channel mapping")
	}

	s.logger.Info(ctx, "product delisted from marketplace")
	return nil
}
