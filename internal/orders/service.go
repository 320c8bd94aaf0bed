package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/midastechnical/storefront-sync/pkg/db/models"
	pkgerrors "github.com/midastechnical/storefront-sync/pkg/errors"
	"github.com/midastechnical/storefront-sync/pkg/fourseller"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

// Store is the persistence surface the service needs. *Repository satisfies it.
type Store interface {
	FindByMarketplaceID(ctx context.Context, marketplaceOrderID string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// ChannelClient is the marketplace surface the service needs.
type ChannelClient interface {
	ListOrders(ctx context.Context, filters fourseller.OrderFilters) ([]fourseller.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string, tracking *fourseller.TrackingInfo) error
}

// SyncSummary aggregates one status sync pass.
type SyncSummary struct {
	Fetched int
	Updated int
	Skipped int
	Failed  int
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Store     Store
	Channel   ChannelClient
	Logger    *logger.Logger
	BatchSize int
}

// Service mirrors marketplace order status onto local orders.
type Service struct {
	store     Store
	channel   ChannelClient
	logger    *logger.Logger
	batchSize int
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
	if params.BatchSize <= 0 {
		params.BatchSize = 100
	}
	return &Service{
		store:     params.Store,
		channel:   params.Channel,
		logger:    params.Logger,
		batchSize: params.BatchSize,
	}, nil
}

// SyncStatuses pulls recent marketplace orders and applies their status to the
// matching local orders. Orders with no local match are skipped. A failure on
// one order never stops the pass.
func (s *Service) SyncStatuses(ctx context.Context) (*SyncSummary, error) {
	marketplaceOrders, err := s.channel.ListOrders(ctx, fourseller.OrderFilters{Limit: s.batchSize})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list marketplace orders")
	}

	summary := &SyncSummary{Fetched: len(marketplaceOrders)}
	for _, remote := range marketplaceOrders {
		outcome, err := s.syncOne(ctx, remote)
		if err != nil {
			summary.Failed++
			s.logger.Error(s.logger.WithField(ctx, "marketplace_order_id", remote.ID), "order status sync failed", err)
			continue
		}
		switch outcome {
		case outcomeUpdated:
			summary.Updated++
		case outcomeSkipped:
			summary.Skipped++
		}
	}
	return summary, nil
}

type syncOutcome int

const (
	outcomeSkipped syncOutcome = iota
	outcomeUpdated
)

func (s *Service) syncOne(ctx context.Context, remote fourseller.Order) (syncOutcome, error) {
	local, err := s.store.FindByMarketplaceID(ctx, remote.ID)
	if err != nil {
		return outcomeSkipped, err
	}
	if local == nil {
		return outcomeSkipped, nil
	}
	if local.Status == remote.Status {
		return outcomeSkipped, nil
	}
	if err := s.store.UpdateStatus(ctx, local.ID, remote.Status); err != nil {
		return outcomeSkipped, err
	}
	return outcomeUpdated, nil
}

// PushStatus propagates a local status change (with optional tracking) to the
// marketplace. Orders without a marketplace id are local-only and rejected.
func (s *Service) PushStatus(ctx context.Context, order *models.Order, tracking *fourseller.TrackingInfo) error {
	if order.MarketplaceOrderID == nil || *order.MarketplaceOrderID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order has no marketplace id")
	}
	return s.channel.UpdateOrderStatus(ctx, *order.MarketplaceOrderID, order.Status, tracking)
}
