package orders

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midastechnical/storefront-sync/pkg/db/models"
	pkgerrors "github.com/midastechnical/storefront-sync/pkg/errors"
	"github.com/midastechnical/storefront-sync/pkg/fourseller"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

type fakeStore struct {
	byMarketplaceID map[string]*models.Order
	statusUpdates   map[uuid.UUID]string
	findErrFor      map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byMarketplaceID: map[string]*models.Order{},
		statusUpdates:   map[uuid.UUID]string{},
		findErrFor:      map[string]error{},
	}
}

func (f *fakeStore) FindByMarketplaceID(_ context.Context, marketplaceOrderID string) (*models.Order, error) {
	if err := f.findErrFor[marketplaceOrderID]; err != nil {
		return nil, err
	}
	return f.byMarketplaceID[marketplaceOrderID], nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	f.statusUpdates[id] = status
	return nil
}

type fakeChannel struct {
	orders   []fourseller.Order
	listErr  error
	pushed   map[string]string
	trackers map[string]*fourseller.TrackingInfo
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		pushed:   map[string]string{},
		trackers: map[string]*fourseller.TrackingInfo{},
	}
}

func (f *fakeChannel) ListOrders(_ context.Context, _ fourseller.OrderFilters) ([]fourseller.Order, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.orders, nil
}

func (f *fakeChannel) UpdateOrderStatus(_ context.Context, orderID, status string, tracking *fourseller.TrackingInfo) error {
	f.pushed[orderID] = status
	f.trackers[orderID] = tracking
	return nil
}

func newTestService(t *testing.T, store *fakeStore, channel *fakeChannel) *Service {
	t.Helper()
	service, err := NewService(ServiceParams{
		Store:   store,
		Channel: channel,
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return service
}

func seedOrder(store *fakeStore, marketplaceID, status string) *models.Order {
	order := &models.Order{
		ID:                 uuid.New(),
		MarketplaceOrderID: &marketplaceID,
		Status:             status,
	}
	store.byMarketplaceID[marketplaceID] = order
	return order
}

func TestSyncStatusesUpdatesChangedOrders(t *testing.T) {
	store := newFakeStore()
	channel := newFakeChannel()
	local := seedOrder(store, "mk-1", "pending")
	channel.orders = []fourseller.Order{{ID: "mk-1", Status: "shipped"}}

	service := newTestService(t, store, channel)

	summary, err := service.SyncStatuses(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Fetched)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, "shipped", store.statusUpdates[local.ID])
}

func TestSyncStatusesSkipsUnknownAndUnchangedOrders(t *testing.T) {
	store := newFakeStore()
	channel := newFakeChannel()
	seedOrder(store, "mk-1", "shipped")
	channel.orders = []fourseller.Order{
		{ID: "mk-1", Status: "shipped"},
		{ID: "mk-unknown", Status: "delivered"},
	}

	service := newTestService(t, store, channel)

	summary, err := service.SyncStatuses(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Fetched)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	assert.Empty(t, store.statusUpdates)
}

func TestSyncStatusesIsolatesPerOrderFailures(t *testing.T) {
	store := newFakeStore()
	channel := newFakeChannel()
	seedOrder(store, "mk-1", "pending")
	seedOrder(store, "mk-3", "pending")
	store.findErrFor["mk-2"] = fmt.Errorf("query timeout")
	channel.orders = []fourseller.Order{
		{ID: "mk-1", Status: "shipped"},
		{ID: "mk-2", Status: "shipped"},
		{ID: "mk-3", Status: "delivered"},
	}

	service := newTestService(t, store, channel)

	summary, err := service.SyncStatuses(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Fetched)
	assert.Equal(t, 2, summary.Updated)
	assert.Equal(t, 1, summary.Failed)
}

func TestSyncStatusesListFailureFailsThePass(t *testing.T) {
	channel := newFakeChannel()
	channel.listErr = fmt.Errorf("marketplace unavailable")

	service := newTestService(t, newFakeStore(), channel)

	_, err := service.SyncStatuses(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestPushStatusRequiresMarketplaceID(t *testing.T) {
	service := newTestService(t, newFakeStore(), newFakeChannel())

	err := service.PushStatus(context.Background(), &models.Order{ID: uuid.New(), Status: "shipped"}, nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestPushStatusSendsTracking(t *testing.T) {
	store := newFakeStore()
	channel := newFakeChannel()
	order := seedOrder(store, "mk-9", "shipped")

	service := newTestService(t, store, channel)

	tracking := &fourseller.TrackingInfo{Carrier: "UPS", TrackingNumber: "1Z999"}
	require.NoError(t, service.PushStatus(context.Background(), order, tracking))
	assert.Equal(t, "shipped", channel.pushed["mk-9"])
	assert.Equal(t, tracking, channel.trackers["mk-9"])
}
