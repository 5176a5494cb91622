package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mistvale/storefront/internal/domain"
	"github.com/mistvale/storefront/internal/service"
	"github.com/mistvale/storefront/pkg/httputil"
	"github.com/mistvale/storefront/pkg/pagination"
	"github.com/mistvale/storefront/pkg/validator"
)

// OrderHandler handles HTTP requests for checkout and admin sale endpoints.
type OrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// OrderLineRequest is one cart line in a checkout request.
type OrderLineRequest struct {
	ProductID  string `json:"product_id" validate:"required,uuid"`
	FlavorName string `json:"flavor_name" validate:"required,min=1,max=200"`
	Quantity   int    `json:"quantity" validate:"required,gte=1"`
}

// PlaceOrderRequest is the JSON request body for checkout.
type PlaceOrderRequest struct {
	Lines    []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
	Customer struct {
		Name            string `json:"name" validate:"required,min=1,max=200"`
		Email           string `json:"email" validate:"required,email"`
		Phone           string `json:"phone" validate:"omitempty,max=50"`
		ShippingAddress string `json:"shipping_address" validate:"required,min=1"`
	} `json:"customer" validate:"required"`
}

// UpdateSaleStatusRequest is the JSON request body for a sale status change.
type UpdateSaleStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed cancelled"`
}

// --- Public handlers ---

// PlaceOrder handles POST /api/v1/orders
// @Summary Place an order
// @Description Reserves flavor inventory for every cart line atomically; any failing line aborts the whole order
// @Tags orders
// @Accept json
// @Produce json
// @Param request body PlaceOrderRequest true "Cart lines and customer details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/orders [post]
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	lines := make([]domain.CartLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = domain.CartLine{
			ProductID:  l.ProductID,
			FlavorName: l.FlavorName,
			Quantity:   l.Quantity,
		}
	}

	order, err := h.service.PlaceOrder(r.Context(), service.PlaceOrderInput{
		Lines: lines,
		Customer: domain.Customer{
			Name:            req.Customer.Name,
			Email:           req.Customer.Email,
			Phone:           req.Customer.Phone,
			ShippingAddress: req.Customer.ShippingAddress,
		},
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// --- Admin handlers ---

// ListSales handles GET /api/v1/admin/sales
// @Summary List sales
// @Tags admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(20)
// @Param status query string false "Filter by status" Enums(pending,completed,cancelled)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/sales [get]
func (h *OrderHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	status := r.URL.Query().Get("status")

	sales, total, err := h.service.ListSales(r.Context(), status, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(sales, total, params.Page, params.PerPage))
}

// GetSale handles GET /api/v1/admin/sales/{id}
// @Summary Get a sale
// @Tags admin
// @Produce json
// @Param id path string true "Sale UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/sales/{id} [get]
func (h *OrderHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	sale, err := h.service.GetSale(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sale})
}

// UpdateSaleStatus handles PUT /api/v1/admin/sales/{id}/status
// @Summary Update a sale's status
// @Description Only pending sales can transition; completed and cancelled are terminal
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Sale UUID"
// @Param request body UpdateSaleStatusRequest true "New status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/sales/{id}/status [put]
func (h *OrderHandler) UpdateSaleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateSaleStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sale, err := h.service.UpdateSaleStatus(r.Context(), id.String(), req.Status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sale})
}
