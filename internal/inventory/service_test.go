package inventory

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/midastechnical/storefront-sync/pkg/db/models"
	"github.com/midastechnical/storefront-sync/pkg/enums"
	pkgerrors "github.com/midastechnical/storefront-sync/pkg/errors"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

type fakeStore struct {
	products map[uuid.UUID]*models.Product
	mappings map[uuid.UUID]*models.ChannelMapping
	changes  []models.InventoryChange

	findMappingErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[uuid.UUID]*models.Product{},
		mappings: map[uuid.UUID]*models.ChannelMapping{},
	}
}

func (f *fakeStore) FindProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *product
	return &copied, nil
}

func (f *fakeStore) UpdateStock(_ context.Context, productID uuid.UUID, quantity int) error {
	product, ok := f.products[productID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	product.StockQuantity = quantity
	return nil
}

func (f *fakeStore) FindMapping(_ context.Context, productID uuid.UUID) (*models.ChannelMapping, error) {
	if f.findMappingErr != nil {
		return nil, f.findMappingErr
	}
	return f.mappings[productID], nil
}

func (f *fakeStore) ListMappings(_ context.Context) ([]models.ChannelMapping, error) {
	var out []models.ChannelMapping
	for _, mapping := range f.mappings {
		out = append(out, *mapping)
	}
	return out, nil
}

func (f *fakeStore) AppendChange(_ context.Context, change *models.InventoryChange) error {
	f.changes = append(f.changes, *change)
	return nil
}

func (f *fakeStore) ListChanges(_ context.Context, productID uuid.UUID, limit int) ([]models.InventoryChange, error) {
	var out []models.InventoryChange
	for _, change := range f.changes {
		if change.ProductID == productID {
			out = append(out, change)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeChannel struct {
	quantities map[string]int
	updates    []string
	updateErr  error
	getErrFor  map[string]error
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		quantities: map[string]int{},
		getErrFor:  map[string]error{},
	}
}

func (f *fakeChannel) UpdateInventory(_ context.Context, externalID string, quantity int) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, externalID)
	f.quantities[externalID] = quantity
	return nil
}

func (f *fakeChannel) GetInventory(_ context.Context, externalID string) (int, error) {
	if err := f.getErrFor[externalID]; err != nil {
		return 0, err
	}
	quantity, ok := f.quantities[externalID]
	if !ok {
		return 0, fmt.Errorf("unknown listing %s", externalID)
	}
	return quantity, nil
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

func seedProduct(store *fakeStore, quantity int) uuid.UUID {
	id := uuid.New()
	store.products[id] = &models.Product{ID: id, SKU: "SKU-" + id.String()[:8], StockQuantity: quantity}
	return id
}

func seedMapping(store *fakeStore, productID uuid.UUID, externalID string) {
	store.mappings[productID] = &models.ChannelMapping{
		ID:                  uuid.New(),
		ProductID:           productID,
		Channel:             "fourseller",
		FourSellerProductID: externalID,
	}
}

func TestUpdateAcrossChannelsPushesToMarketplace(t *testing.T) {
	store := newFakeStore()
	channel := newFakeChannel()
	productID := seedProduct(store, 10)
	seedMapping(store, productID, "4s-100")

	service := newTestService(t, store, channel)

	result, err := service.UpdateAcrossChannels(context.Background(), productID, 7, enums.SyncSourceWebsite)
	require.NoError(t, err)

	assert.True(t, result.ChannelSynced)
	assert.False(t, result.ChannelSkipped)
	assert.NoError(t, result.ChannelError)
	assert.Equal(t, 7, store.products[productID].StockQuantity)
	assert.Equal(t, 7, channel.quantities["4s-100"])

	require.Len(t, store.changes, 1)
	assert.Equal(t, enums.SyncSourceWebsite, store.changes[0].Source)
	assert.Equal(t, 7, store.changes[0].Quantity)
}

func TestUpdateAcrossChannelsSkipsUnmappedProduct(t *testing.T) {
	store := newFakeStore()
	channel := newFakeChannel()
	productID := seedProduct(store, 10)

	service := newTestService(t, store, channel)

	result, err := service.UpdateAcrossChannels(context.Background(), productID, 42, enums.SyncSourceWebsite)
	require.NoError(t, err)

	assert.True(t, result.ChannelSkipped)
	assert.Empty(t, channel.updates)
	assert.Equal(t, 42, store.products[productID].StockQuantity)
	require.Len(t, store.changes, 1)
	assert.Equal(t, enums.SyncSourceWebsite, store.changes[0].Source)
}

func TestUpdateAcrossChannelsSkipsEchoFromMarketplace(t *testing.T) {
	store := newFakeStore()
	channel := newFakeChannel()
	productID := seedProduct(store, 10)
	seedMapping(store, productID, "4s-100")

	service := newTestService(t, store, channel)

	result, err := service.UpdateAcrossChannels(context.Background(), productID, 3, enums.SyncSourceMarketplace)
	require.NoError(t, err)

	assert.True(t, result.ChannelSkipped)
	assert.Empty(t, channel.updates)
	assert.Equal(t, 3, store.products[productID].StockQuantity)
}

func TestUpdateAcrossChannelsChannelFailureKeepsLocalWrite(t *testing.T) {
	store := newFakeStore()
	channel := newFakeChannel()
	channel.updateErr = fmt.Errorf("marketplace unavailable")
	productID := seedProduct(store, 10)
	seedMapping(store, productID, "4s-100")

	service := newTestService(t, store, channel)

	result, err := service.UpdateAcrossChannels(context.Background(), productID, 5, enums.SyncSourceWebsite)
	require.NoError(t, err)

	assert.False(t, result.ChannelSynced)
	assert.Error(t, result.ChannelError)
	assert.Equal(t, 5, store.products[productID].StockQuantity)
	require.Len(t, store.changes, 1)
}

type recordingStore struct {
	*fakeStore
	calls *[]string
}

func (r *recordingStore) UpdateStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	*r.calls = append(*r.calls, "UpdateStock")
	return r.fakeStore.UpdateStock(ctx, productID, quantity)
}

func (r *recordingStore) FindMapping(ctx context.Context, productID uuid.UUID) (*models.ChannelMapping, error) {
	*r.calls = append(*r.calls, "FindMapping")
	return r.fakeStore.FindMapping(ctx, productID)
}

func (r *recordingStore) AppendChange(ctx context.Context, change *models.InventoryChange) error {
	*r.calls = append(*r.calls, "AppendChange")
	return r.fakeStore.AppendChange(ctx, change)
}

type recordingChannel struct {
	*fakeChannel
	calls *[]string
}

func (r *recordingChannel) UpdateInventory(ctx context.Context, externalID string, quantity int) error {
	*r.calls = append(*r.calls, "UpdateInventory")
	return r.fakeChannel.UpdateInventory(ctx, externalID, quantity)
}

func TestUpdateAcrossChannelsRecordsChangeLast(t *testing.T) {
	inner := newFakeStore()
	productID := seedProduct(inner, 10)
	seedMapping(inner, productID, "4s-100")

	var calls []string
	store := &recordingStore{fakeStore: inner, calls: &calls}
	channel := &recordingChannel{fakeChannel: newFakeChannel(), calls: &calls}

	service, err := NewService(ServiceParams{
		Store:   store,
		Channel: channel,
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)

	_, err = service.UpdateAcrossChannels(context.Background(), productID, 5, enums.SyncSourceWebsite)
	require.NoError(t, err)

	assert.Equal(t, []string{"UpdateStock", "FindMapping", "UpdateInventory", "AppendChange"}, calls)
}

func TestUpdateAcrossChannelsRecordsChangeAfterFailedPush(t *testing.T) {
	inner := newFakeStore()
	productID := seedProduct(inner, 10)
	seedMapping(inner, productID, "4s-100")

	var calls []string
	store := &recordingStore{fakeStore: inner, calls: &calls}
	failing := newFakeChannel()
	failing.updateErr = fmt.Errorf("marketplace unavailable")
	channel := &recordingChannel{fakeChannel: failing, calls: &calls}

	service, err := NewService(ServiceParams{
		Store:   store,
		Channel: channel,
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)

	result, err := service.UpdateAcrossChannels(context.Background(), productID, 5, enums.SyncSourceWebsite)
	require.NoError(t, err)
	require.Error(t, result.ChannelError)

	assert.Equal(t, []string{"UpdateStock", "FindMapping", "UpdateInventory", "AppendChange"}, calls)
	require.Len(t, inner.changes, 1)
}

func TestChangesReturnsProductHistory(t *testing.T) {
	store := newFakeStore()
	channel := newFakeChannel()
	productID := seedProduct(store, 10)
	other := seedProduct(store, 3)
	service := newTestService(t, store, channel)

	_, err := service.UpdateAcrossChannels(context.Background(), productID, 5, enums.SyncSourceWebsite)
	require.NoError(t, err)
	_, err = service.UpdateAcrossChannels(context.Background(), other, 7, enums.SyncSourceWebsite)
	require.NoError(t, err)

	changes, err := service.Changes(context.Background(), productID, 10)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, 5, changes[0].Quantity)
}

func TestChangesUnknownProduct(t *testing.T) {
	service := newTestService(t, newFakeStore(), newFakeChannel())

	_, err := service.Changes(context.Background(), uuid.New(), 10)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateAcrossChannelsRejectsNegativeQuantity(t *testing.T) {
	store := newFakeStore()
	service := newTestService(t, store, newFakeChannel())

	_, err := service.UpdateAcrossChannels(context.Background(), uuid.New(), -1, enums.SyncSourceWebsite)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, store.changes)
}

func TestUpdateAcrossChannelsUnknownProduct(t *testing.T) {
	service := newTestService(t, newFakeStore(), newFakeChannel())

	_, err := service.UpdateAcrossChannels(context.Background(), uuid.New(), 1, enums.SyncSourceWebsite)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestReconcileAppliesMarketplaceQuantities(t *testing.T) {
	store := newFakeStore()
	channel := newFakeChannel()
	productID := seedProduct(store, 10)
	seedMapping(store, productID, "4s-100")
	channel.quantities["4s-100"] = 25

	service := newTestService(t, store, channel)

	summary, err := service.ReconcileFromMarketplace(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Synced)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 25, store.products[productID].StockQuantity)
	require.Len(t, store.changes, 1)
	assert.Equal(t, enums.SyncSourceReconcile, store.changes[0].Source)
}

func TestReconcileSkipsChangeWhenQuantitiesAgree(t *testing.T) {
	store := newFakeStore()
	channel := newFakeChannel()
	productID := seedProduct(store, 25)
	seedMapping(store, productID, "4s-100")
	channel.quantities["4s-100"] = 25

	service := newTestService(t, store, channel)

	summary, err := service.ReconcileFromMarketplace(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Synced)
	assert.Empty(t, store.changes)
}

func TestReconcileIsolatesPerItemFailures(t *testing.T) {
	store := newFakeStore()
	channel := newFakeChannel()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		productID := seedProduct(store, 1)
		externalID := fmt.Sprintf("4s-%d", i)
		seedMapping(store, productID, externalID)
		channel.quantities[externalID] = 100 + i
		ids = append(ids, productID)
	}
	channel.getErrFor["4s-2"] = fmt.Errorf("listing lookup failed")

	service := newTestService(t, store, channel)

	summary, err := service.ReconcileFromMarketplace(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 4, summary.Synced)
	assert.Equal(t, 1, summary.Failed)

	for i, productID := range ids {
		if i == 2 {
			assert.Equal(t, 1, store.products[productID].StockQuantity)
			continue
		}
		assert.Equal(t, 100+i, store.products[productID].StockQuantity)
	}
	assert.Len(t, store.changes, 4)
}

func TestProductLocksSerializeSameProduct(t *testing.T) {
	locks := newProductLocks()
	productID := uuid.New()

	unlock := locks.Lock(productID)
	done := make(chan struct{})
	go func() {
		inner := locks.Lock(productID)
		inner()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second lock acquired while first still held")
	default:
	}

	unlock()
	<-done
}
