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

// FlavorHandler handles HTTP requests for flavor inventory endpoints.
type FlavorHandler struct {
	service *service.InventoryService
	logger  *slog.Logger
}

// NewFlavorHandler creates a new flavor HTTP handler.
func NewFlavorHandler(svc *service.InventoryService, logger *slog.Logger) *FlavorHandler {
	return &FlavorHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateFlavorRequest is the JSON request body for adding a flavor to a product.
type CreateFlavorRequest struct {
	Name              string `json:"name" validate:"required,min=1,max=200"`
	Inventory         int    `json:"inventory" validate:"gte=0"`
	ReservedInventory int    `json:"reserved_inventory" validate:"gte=0"`
	LowStockThreshold int    `json:"low_stock_threshold" validate:"gte=0"`
	Active            bool   `json:"active"`
}

// UpdateFlavorRequest is the JSON request body for a partial flavor update.
type UpdateFlavorRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=200"`
	Inventory         *int    `json:"inventory" validate:"omitempty,gte=0"`
	ReservedInventory *int    `json:"reserved_inventory" validate:"omitempty,gte=0"`
	LowStockThreshold *int    `json:"low_stock_threshold" validate:"omitempty,gte=0"`
	Active            *bool   `json:"active"`
}

// --- Handlers ---

// ListFlavors handles GET /api/v1/admin/products/{id}/flavors
// @Summary List flavors for a product
// @Tags admin
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/products/{id}/flavors [get]
func (h *FlavorHandler) ListFlavors(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	flavors, err := h.service.ListFlavors(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: flavors})
}

// CreateFlavor handles POST /api/v1/admin/products/{id}/flavors
// @Summary Add a flavor to a product
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Product UUID"
// @Param request body CreateFlavorRequest true "Flavor to create"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/products/{id}/flavors [post]
func (h *FlavorHandler) CreateFlavor(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateFlavorRequest
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

	flavor, err := h.service.CreateFlavor(r.Context(), service.CreateFlavorInput{
		ProductID:         id.String(),
		Name:              req.Name,
		Inventory:         req.Inventory,
		ReservedInventory: req.ReservedInventory,
		LowStockThreshold: req.LowStockThreshold,
		Active:            req.Active,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: flavor})
}

// GetFlavor handles GET /api/v1/admin/flavors/{id}
// @Summary Get a flavor
// @Tags admin
// @Produce json
// @Param id path string true "Flavor UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/flavors/{id} [get]
func (h *FlavorHandler) GetFlavor(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	flavor, err := h.service.GetFlavor(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: flavor})
}

// UpdateFlavor handles PUT /api/v1/admin/flavors/{id}
// @Summary Update a flavor
// @Description Partially updates a flavor; counter invariants are checked against the merged state
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Flavor UUID"
// @Param request body UpdateFlavorRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/flavors/{id} [put]
func (h *FlavorHandler) UpdateFlavor(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateFlavorRequest
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

	flavor, err := h.service.UpdateFlavor(r.Context(), id.String(), domain.FlavorUpdate{
		Name:              req.Name,
		Inventory:         req.Inventory,
		ReservedInventory: req.ReservedInventory,
		LowStockThreshold: req.LowStockThreshold,
		Active:            req.Active,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: flavor})
}

// DeleteFlavor handles DELETE /api/v1/admin/flavors/{id}
// @Summary Delete a flavor
// @Tags admin
// @Produce json
// @Param id path string true "Flavor UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/flavors/{id} [delete]
func (h *FlavorHandler) DeleteFlavor(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteFlavor(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id.String(), "status": "deleted"}})
}

// ListLowStock handles GET /api/v1/admin/inventory/low-stock
// @Summary List active flavors at or below their low-stock threshold
// @Tags admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/inventory/low-stock [get]
func (h *FlavorHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	flavors, total, err := h.service.ListLowStock(r.Context(), params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(flavors, total, params.Page, params.PerPage))
}
