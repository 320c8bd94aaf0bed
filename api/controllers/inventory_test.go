package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midastechnical/storefront-sync/internal/inventory"
	"github.com/midastechnical/storefront-sync/pkg/db/models"
	"github.com/midastechnical/storefront-sync/pkg/enums"
	pkgerrors "github.com/midastechnical/storefront-sync/pkg/errors"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

type stubInventoryService struct {
	result    *inventory.SyncResult
	summary   *inventory.ReconcileSummary
	changes   []models.InventoryChange
	err       error
	lastQty   int
	lastSrc   enums.SyncSource
	lastProd  uuid.UUID
	callCount int
}

func (s *stubInventoryService) UpdateAcrossChannels(_ context.Context, productID uuid.UUID, quantity int, source enums.SyncSource) (*inventory.SyncResult, error) {
	s.callCount++
	s.lastProd = productID
	s.lastQty = quantity
	s.lastSrc = source
	return s.result, s.err
}

func (s *stubInventoryService) ReconcileFromMarketplace(context.Context) (*inventory.ReconcileSummary, error) {
	return s.summary, s.err
}

func (s *stubInventoryService) Changes(_ context.Context, productID uuid.UUID, _ int) ([]models.InventoryChange, error) {
	s.lastProd = productID
	return s.changes, s.err
}

func testControllerLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func inventoryRequest(productID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/"+productID, strings.NewReader(body))
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productId", productID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestUpdateInventorySuccess(t *testing.T) {
	productID := uuid.New()
	stub := &stubInventoryService{
		result: &inventory.SyncResult{ProductID: productID, Quantity: 7, ChannelSynced: true},
	}

	rec := httptest.NewRecorder()
	req := inventoryRequest(productID.String(), `{"quantity":7,"source":"website"}`)
	UpdateInventory(stub, testControllerLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stub.callCount)
	assert.Equal(t, 7, stub.lastQty)
	assert.Equal(t, enums.SyncSourceWebsite, stub.lastSrc)
	assert.Equal(t, productID, stub.lastProd)

	var envelope struct {
		Data updateInventoryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.ChannelSynced)
	assert.Empty(t, envelope.Data.ChannelError)
}

func TestUpdateInventoryInvalidProductID(t *testing.T) {
	stub := &stubInventoryService{}

	rec := httptest.NewRecorder()
	req := inventoryRequest("not-a-uuid", `{"quantity":7,"source":"website"}`)
	UpdateInventory(stub, testControllerLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, stub.callCount)
}

func TestUpdateInventoryInvalidSource(t *testing.T) {
	stub := &stubInventoryService{}

	rec := httptest.NewRecorder()
	req := inventoryRequest(uuid.NewString(), `{"quantity":7,"source":"carrier-pigeon"}`)
	UpdateInventory(stub, testControllerLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, stub.callCount)
}

func TestUpdateInventoryUnknownProductMapsTo404(t *testing.T) {
	stub := &stubInventoryService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}

	rec := httptest.NewRecorder()
	req := inventoryRequest(uuid.NewString(), `{"quantity":7,"source":"website"}`)
	UpdateInventory(stub, testControllerLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInventoryChangesReturnsHistory(t *testing.T) {
	productID := uuid.New()
	stub := &stubInventoryService{
		changes: []models.InventoryChange{
			{ProductID: productID, Quantity: 5, Source: enums.SyncSourceWebsite},
			{ProductID: productID, Quantity: 3, Source: enums.SyncSourceReconcile},
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/"+productID.String()+"/changes", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productId", productID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	InventoryChanges(stub, testControllerLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, productID, stub.lastProd)

	var envelope struct {
		Data []models.InventoryChange `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, 5, envelope.Data[0].Quantity)
}

func TestInventoryChangesInvalidProductID(t *testing.T) {
	stub := &stubInventoryService{}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/nope/changes", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productId", "nope")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	InventoryChanges(stub, testControllerLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReconcileInventoryReportsSummary(t *testing.T) {
	stub := &stubInventoryService{summary: &inventory.ReconcileSummary{Total: 5, Synced: 4, Failed: 1}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/reconcile", nil)
	ReconcileInventory(stub, testControllerLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data reconcileResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 5, envelope.Data.Total)
	assert.Equal(t, 1, envelope.Data.Failed)
}
