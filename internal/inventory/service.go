package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/midastechnical/storefront-sync/pkg/db/models"
	"github.com/midastechnical/storefront-sync/pkg/enums"
	pkgerrors "github.com/midastechnical/storefront-sync/pkg/errors"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

// Store is the persistence surface the service needs. *Repository satisfies it.
type Store interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateStock(ctx context.Context, productID uuid.UUID, quantity int) error
	FindMapping(ctx context.Context, productID uuid.UUID) (*models.ChannelMapping, error)
	ListMappings(ctx context.Context) ([]models.ChannelMapping, error)
	AppendChange(ctx context.Context, change *models.InventoryChange) error
	ListChanges(ctx context.Context, productID uuid.UUID, limit int) ([]models.InventoryChange, error)
}

// ChannelClient is the marketplace surface the service needs.
type ChannelClient interface {
	UpdateInventory(ctx context.Context, externalID string, quantity int) error
	GetInventory(ctx context.Context, externalID string) (int, error)
}

// SyncResult describes the outcome of a single inventory update. The local
// write always succeeds when err is nil; the channel fields report what
// happened downstream.
type SyncResult struct {
	ProductID      uuid.UUID
	Quantity       int
	Source         enums.SyncSource
	ChannelSynced  bool
	ChannelSkipped bool
	ChannelError   error
}

// ReconcileSummary aggregates a full marketplace reconciliation pass.
type ReconcileSummary struct {
	Total  int
	Synced int
	Failed int
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Store   Store
	Channel ChannelClient
	Logger  *logger.Logger
}

// Service keeps the local store and the marketplace channel in agreement.
// Updates to the same product are serialized with a per-product lock.
type Service struct {
	store   Store
	channel ChannelClient
	logger  *logger.Logger
	locks   *productLocks
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
		locks:   newProductLocks(),
	}, nil
}

// UpdateAcrossChannels applies a stock change locally and propagates it to the
// marketplace. Changes that originated on the marketplace side are applied
// locally only. A product with no channel mapping is updated locally and the
// channel step is skipped. A channel failure never rolls back the local write;
// it is reported on the result instead.
func (s *Service) UpdateAcrossChannels(ctx context.Context, productID uuid.UUID, quantity int, source enums.SyncSource) (*SyncResult, error) {
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be non-negative, got %d", quantity))
	}
	if !source.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid sync source %q", source))
	}

	unlock := s.locks.Lock(productID)
	defer unlock()

	ctx = s.logger.WithProductID(ctx, productID.String())

	if _, err := s.store.FindProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	if err := s.store.UpdateStock(ctx, productID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update stock")
	}

	result := &SyncResult{
		ProductID: productID,
		Quantity:  quantity,
		Source:    source,
	}

	if err := s.propagate(ctx, result); err != nil {
		return nil, err
	}

	// The change record is the terminal step. It is appended whether the
	// channel push succeeded, failed or was skipped.
	change := &models.InventoryChange{
		ProductID: productID,
		Quantity:  quantity,
		Source:    source,
	}
	if err := s.store.AppendChange(ctx, change); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record inventory change")
	}
	return result, nil
}

// propagate pushes the new quantity to the marketplace. Store errors
// propagate; channel errors land on the result.
func (s *Service) propagate(ctx context.Context, result *SyncResult) error {
	if result.Source.IsExternal() {
		result.ChannelSkipped = true
		s.logger.Info(ctx, "inventory updated from marketplace, skipping channel push")
		return nil
	}

	mapping, err := s.store.FindMapping(ctx, result.ProductID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load channel mapping")
	}
	if mapping == nil {
		result.ChannelSkipped = true
		s.logger.Info(ctx, "product not published to marketplace, skipping channel push")
		return nil
	}

	ctx = s.logger.WithChannel(ctx, mapping.Channel)
	if err := s.channel.UpdateInventory(ctx, mapping.FourSellerProductID, result.Quantity); err != nil {
		result.ChannelError = err
		s.logger.Error(ctx, "channel inventory push failed", err)
		return nil
	}
	result.ChannelSynced = true
	s.logger.Info(ctx, "inventory synchronized to marketplace")
	return nil
}

// ReconcileFromMarketplace pulls the authoritative quantity for every mapped
// product and applies any drift locally. The marketplace wins on conflict. A
// failure on one product never stops the pass; it is counted and the loop
// moves on.
func (s *Service) ReconcileFromMarketplace(ctx context.Context) (*ReconcileSummary, error) {
	mappings, err := s.store.ListMappings(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list channel mappings")
	}

	summary := &ReconcileSummary{Total: len(mappings)}
	for _, mapping := range mappings {
		if err := s.reconcileOne(ctx, mapping); err != nil {
			summary.Failed++
			s.logger.Error(s.logger.WithProductID(ctx, mapping.ProductID.String()), "reconcile product failed", err)
			continue
		}
		summary.Synced++
	}
	return summary, nil
}

// Changes returns a product's recorded change history, newest first. The
// product must exist; an empty history is not an error.
func (s *Service) Changes(ctx context.Context, productID uuid.UUID, limit int) ([]models.InventoryChange, error) {
	if _, err := s.store.FindProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	changes, err := s.store.ListChanges(ctx, productID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inventory changes")
	}
	return changes, nil
}

func (s *Service) reconcileOne(ctx context.Context, mapping models.ChannelMapping) error {
	quantity, err := s.channel.GetInventory(ctx, mapping.FourSellerProductID)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(mapping.ProductID)
	defer unlock()

	product, err := s.store.FindProduct(ctx, mapping.ProductID)
	if err != nil {
		return err
	}
	if product.StockQuantity == quantity {
		return nil
	}

	if err := s.store.UpdateStock(ctx, mapping.ProductID, quantity); err != nil {
		return err
	}
	return s.store.AppendChange(ctx, &models.InventoryChange{
		ProductID: mapping.ProductID,
		Quantity:  quantity,
		Source:    enums.SyncSourceReconcile,
	})
}
