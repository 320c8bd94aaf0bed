package fourseller

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/midastechnical/storefront-sync/pkg/config"
	"github.com/midastechnical/storefront-sync/pkg/db/models"
	"github.com/midastechnical/storefront-sync/pkg/enums"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

type fakeAudit struct {
	mu   sync.Mutex
	rows []models.ChannelSyncLog
}

func (f *fakeAudit) Record(_ context.Context, entry models.ChannelSyncLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, entry)
	return nil
}

func (f *fakeAudit) last(t *testing.T) models.ChannelSyncLog {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.rows) == 0 {
		t.Fatal("expected an audit row")
	}
	return f.rows[len(f.rows)-1]
}

func newTestClient(t *testing.T, serverURL string, audit AuditLogger) *Client {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	client, err := NewClient(context.Background(), ClientParams{
		Config: config.FourSellerConfig{
			BaseURL:       serverURL,
			APIKey:        "test-key",
			SellerID:      "seller-42",
			Timeout:       2 * time.Second,
			RetryAttempts: 3,
			RetryBaseWait: time.Millisecond,
			RetryMaxWait:  10 * time.Millisecond,
		},
		Audit:  audit,
		Logger: logg,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestUpdateInventoryRetriesServerErrors(t *testing.T) {
	var mu sync.Mutex
	var attemptTimes []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attemptTimes = append(attemptTimes, time.Now())
		n := len(attemptTimes)
		mu.Unlock()

		if r.Method != http.MethodPatch {
			t.Errorf("unexpected method %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", got)
		}
		if got := r.Header.Get("X-Seller-ID"); got != "seller-42" {
			t.Errorf("missing seller header, got %q", got)
		}

		if n < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	audit := &fakeAudit{}
	client := newTestClient(t, server.URL, audit)

	if err := client.UpdateInventory(context.Background(), "fs-1", 42); err != nil {
		t.Fatalf("UpdateInventory: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(attemptTimes) != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", len(attemptTimes))
	}
	firstGap := attemptTimes[1].Sub(attemptTimes[0])
	secondGap := attemptTimes[2].Sub(attemptTimes[1])
	if secondGap <= firstGap {
		t.Fatalf("expected increasing delays, got %v then %v", firstGap, secondGap)
	}

	row := audit.last(t)
	if row.Outcome != enums.SyncOutcomeSuccess {
		t.Fatalf("expected success audit row, got %s", row.Outcome)
	}
	if row.Action != enums.SyncActionUpdateInventory {
		t.Fatalf("unexpected audit action %s", row.Action)
	}
}

func TestUpdateInventoryDoesNotRetryNotFound(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		http.Error(w, `{"error":"unknown product"}`, http.StatusNotFound)
	}))
	defer server.Close()

	audit := &fakeAudit{}
	client := newTestClient(t, server.URL, audit)

	err := client.UpdateInventory(context.Background(), "fs-missing", 5)
	if err == nil {
		t.Fatal("expected error for unknown external id")
	}
	if attempts != 1 {
		t.Fatalf("4xx must not be retried; got %d attempts", attempts)
	}

	var chErr *ChannelError
	if !errors.As(err, &chErr) {
		t.Fatalf("expected ChannelError, got %T", err)
	}
	if chErr.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status %d", chErr.StatusCode)
	}
	if chErr.Retryable() {
		t.Fatal("404 must not be retryable")
	}

	row := audit.last(t)
	if row.Outcome != enums.SyncOutcomeFailed {
		t.Fatalf("expected failed audit row, got %s", row.Outcome)
	}
	if row.HTTPStatus != http.StatusNotFound {
		t.Fatalf("audit row should carry the final status, got %d", row.HTTPStatus)
	}
}

func TestUpdateInventoryRejectsNegativeQuantity(t *testing.T) {
	audit := &fakeAudit{}
	client := newTestClient(t, "http://localhost:1", audit)

	err := client.UpdateInventory(context.Background(), "fs-1", -1)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(audit.rows) != 0 {
		t.Fatal("validation failures must not reach the audit log")
	}
}

func TestCreateProductReturnsExternalID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" || r.Method != http.MethodPost {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"fs-900"}`))
	}))
	defer server.Close()

	audit := &fakeAudit{}
	client := newTestClient(t, server.URL, audit)

	desc := "Replacement screen"
	product := models.Product{
		ID:            uuid.New(),
		SKU:           "SCR-11",
		Name:          "iPhone 11 Screen",
		Description:   &desc,
		Brand:         "Midas Technical Solutions",
		Category:      "screens",
		Condition:     "new",
		Price:         decimal.NewFromFloat(79.99),
		StockQuantity: 12,
	}

	externalID, err := client.CreateProduct(context.Background(), product)
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if externalID != "fs-900" {
		t.Fatalf("unexpected external id %q", externalID)
	}

	row := audit.last(t)
	if row.EntityID == nil || *row.EntityID != product.ID {
		t.Fatal("audit row should reference the local product")
	}
}

func TestListOrdersAppliesFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("limit") != "50" || q.Get("status") != "shipped" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"data":[{"id":"ord-1","status":"shipped"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, &fakeAudit{})
	orders, err := client.ListOrders(context.Background(), OrderFilters{Limit: 50, Status: "shipped"})
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != "ord-1" {
		t.Fatalf("unexpected orders %+v", orders)
	}
}
