package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mistvale/storefront/internal/event"
	"github.com/mistvale/storefront/internal/service"
	"github.com/mistvale/storefront/pkg/database"
	pkgkafka "github.com/mistvale/storefront/pkg/kafka"
)

func orderTestHandler(t *testing.T, saleRepo *mockSaleRepo) (*OrderHandler, pgxmock.PgxPoolIface) {
	t.Helper()
	logger := handlerTestLogger()
	pool, err := database.NewMockPool()
	require.NoError(t, err)

	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:0"}), logger)
	producer := event.NewProducer(kafkaProducer, logger)
	svc := service.NewOrderService(pool, saleRepo, producer, logger)
	return NewOrderHandler(svc, logger), pool
}

func orderRouter(handler *OrderHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/api/v1/orders", handler.PlaceOrder)
	r.Route("/api/v1/admin/sales", func(r chi.Router) {
		r.Get("/", handler.ListSales)
		r.Get("/{id}", handler.GetSale)
		r.Put("/{id}/status", handler.UpdateSaleStatus)
	})
	return r
}

func placeOrderBody(t *testing.T, productID string) []byte {
	t.Helper()
	var req PlaceOrderRequest
	req.Lines = []OrderLineRequest{{ProductID: productID, FlavorName: "Mango Ice", Quantity: 2}}
	req.Customer.Name = "Ana Torres"
	req.Customer.Email = "ana@example.com"
	req.Customer.ShippingAddress = "Calle 12 #34-56, Bogota"
	b, err := json.Marshal(req)
	require.NoError(t, err)
	return b
}

// =============================================================================
// POST /api/v1/orders
// =============================================================================

func TestPlaceOrder_Success(t *testing.T) {
	saleRepo := new(mockSaleRepo)
	handler, pool := orderTestHandler(t, saleRepo)
	defer pool.Close()
	router := orderRouter(handler)

	productID := "550e8400-e29b-41d4-a716-446655440001"

	pool.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	pool.ExpectQuery("SELECT name, price_cents, active FROM products").
		WithArgs(productID).
		WillReturnRows(pgxmock.NewRows([]string{"name", "price_cents", "active"}).
			AddRow("Cloudbar 6000", int64(1999), true))
	pool.ExpectQuery("SELECT id, inventory, reserved_inventory, low_stock_threshold, active FROM flavors").
		WithArgs(productID, "Mango Ice").
		WillReturnRows(pgxmock.NewRows([]string{"id", "inventory", "reserved_inventory", "low_stock_threshold", "active"}).
			AddRow("flav-1", 10, 3, 5, true))
	pool.ExpectExec("UPDATE flavors SET reserved_inventory").
		WithArgs(2, "flav-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	pool.ExpectExec("INSERT INTO sales").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectCommit()
	pool.ExpectRollback()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(placeOrderBody(t, productID)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestPlaceOrder_InsufficientInventory(t *testing.T) {
	saleRepo := new(mockSaleRepo)
	handler, pool := orderTestHandler(t, saleRepo)
	defer pool.Close()
	router := orderRouter(handler)

	productID := "550e8400-e29b-41d4-a716-446655440001"

	pool.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	pool.ExpectQuery("SELECT name, price_cents, active FROM products").
		WithArgs(productID).
		WillReturnRows(pgxmock.NewRows([]string{"name", "price_cents", "active"}).
			AddRow("Cloudbar 6000", int64(1999), true))
	pool.ExpectQuery("SELECT id, inventory, reserved_inventory, low_stock_threshold, active FROM flavors").
		WithArgs(productID, "Mango Ice").
		WillReturnRows(pgxmock.NewRows([]string{"id", "inventory", "reserved_inventory", "low_stock_threshold", "active"}).
			AddRow("flav-1", 5, 4, 5, true))
	pool.ExpectRollback()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(placeOrderBody(t, productID)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestPlaceOrder_ValidationError(t *testing.T) {
	saleRepo := new(mockSaleRepo)
	handler, pool := orderTestHandler(t, saleRepo)
	defer pool.Close()
	router := orderRouter(handler)

	// Empty cart fails validation before any SQL runs.
	body := []byte(`{"lines":[],"customer":{"name":"Ana","email":"ana@example.com","shipping_address":"x"}}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.NoError(t, pool.ExpectationsWereMet())
}

// =============================================================================
// PUT /api/v1/admin/sales/{id}/status
// =============================================================================

func TestUpdateSaleStatus_InvalidStatus(t *testing.T) {
	saleRepo := new(mockSaleRepo)
	handler, pool := orderTestHandler(t, saleRepo)
	defer pool.Close()
	router := orderRouter(handler)

	body := []byte(`{"status":"shipped"}`)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/sales/550e8400-e29b-41d4-a716-446655440009/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}
