package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mistvale/storefront/internal/service"
	"github.com/mistvale/storefront/pkg/httputil"
	"github.com/mistvale/storefront/pkg/pagination"
	"github.com/mistvale/storefront/pkg/validator"
)

// ProductHandler handles HTTP requests for the public catalog and the admin
// product endpoints.
type ProductHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Name              string   `json:"name" validate:"required,min=1,max=500"`
	Description       string   `json:"description"`
	PriceCents        int64    `json:"price_cents" validate:"required,gt=0"`
	Puffs             int      `json:"puffs" validate:"gte=0"`
	LegacyFlavors     []string `json:"legacy_flavors"`
	Inventory         int      `json:"inventory" validate:"gte=0"`
	ReservedInventory int      `json:"reserved_inventory" validate:"gte=0"`
	LowStockThreshold int      `json:"low_stock_threshold" validate:"gte=0"`
	Active            bool     `json:"active"`
	ShowOnHomepage    bool     `json:"show_on_homepage"`
	ImageURL          string   `json:"image_url" validate:"omitempty,url"`
}

// UpdateProductRequest is the JSON request body for updating a product.
// All fields are optional; absent fields keep their current value.
type UpdateProductRequest struct {
	Name              *string  `json:"name" validate:"omitempty,min=1,max=500"`
	Description       *string  `json:"description"`
	PriceCents        *int64   `json:"price_cents" validate:"omitempty,gt=0"`
	Puffs             *int     `json:"puffs" validate:"omitempty,gte=0"`
	LegacyFlavors     []string `json:"legacy_flavors"`
	Inventory         *int     `json:"inventory" validate:"omitempty,gte=0"`
	ReservedInventory *int     `json:"reserved_inventory" validate:"omitempty,gte=0"`
	LowStockThreshold *int     `json:"low_stock_threshold" validate:"omitempty,gte=0"`
	Active            *bool    `json:"active"`
	ShowOnHomepage    *bool    `json:"show_on_homepage"`
	ImageURL          *string  `json:"image_url" validate:"omitempty,url"`
}

// --- Public catalog handlers ---

// ListCatalog handles GET /api/v1/catalog
// @Summary List the public catalog
// @Description Returns active, purchasable products with flavor-level availability
// @Tags catalog
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(20)
// @Param search query string false "Search by product name"
// @Param homepage query bool false "Only products featured on the homepage"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/catalog [get]
func (h *ProductHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	filter := service.CatalogFilter{
		Search:       r.URL.Query().Get("search"),
		HomepageOnly: r.URL.Query().Get("homepage") == "true",
	}

	products, total, err := h.service.ListCatalog(r.Context(), filter, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(products, total, params.Page, params.PerPage))
}

// GetCatalogProduct handles GET /api/v1/catalog/{idOrSlug}
// It accepts both a UUID (product ID) and a slug for lookup.
// @Summary Get a catalog product by ID or slug
// @Tags catalog
// @Produce json
// @Param idOrSlug path string true "Product UUID or URL slug"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/catalog/{idOrSlug} [get]
func (h *ProductHandler) GetCatalogProduct(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")
	if idOrSlug == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "product id or slug is required"},
		})
		return
	}

	var (
		product any
		err     error
	)
	if _, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		product, err = h.service.GetProduct(r.Context(), idOrSlug)
	} else {
		product, err = h.service.GetProductBySlug(r.Context(), idOrSlug)
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// --- Admin handlers ---

// ListProducts handles GET /api/v1/admin/products
// @Summary List all products including inactive ones
// @Tags admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(20)
// @Param search query string false "Search by product name"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	search := r.URL.Query().Get("search")

	products, total, err := h.service.ListProducts(r.Context(), search, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(products, total, params.Page, params.PerPage))
}

// GetProduct handles GET /api/v1/admin/products/{id}
// @Summary Get a product with derived stock fields
// @Tags admin
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// CreateProduct handles POST /api/v1/admin/products
// @Summary Create a product
// @Tags admin
// @Accept json
// @Produce json
// @Param request body CreateProductRequest true "Product to create"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/admin/products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateProductRequest
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

	product, err := h.service.CreateProduct(r.Context(), service.CreateProductInput{
		Name:              req.Name,
		Description:       req.Description,
		PriceCents:        req.PriceCents,
		Puffs:             req.Puffs,
		LegacyFlavors:     req.LegacyFlavors,
		Inventory:         req.Inventory,
		ReservedInventory: req.ReservedInventory,
		LowStockThreshold: req.LowStockThreshold,
		Active:            req.Active,
		ShowOnHomepage:    req.ShowOnHomepage,
		ImageURL:          req.ImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PUT /api/v1/admin/products/{id}
// @Summary Update a product
// @Description Partially updates a product; all fields are optional
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Product UUID"
// @Param request body UpdateProductRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/products/{id} [put]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateProductRequest
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

	product, err := h.service.UpdateProduct(r.Context(), id.String(), service.UpdateProductInput{
		Name:              req.Name,
		Description:       req.Description,
		PriceCents:        req.PriceCents,
		Puffs:             req.Puffs,
		LegacyFlavors:     req.LegacyFlavors,
		Inventory:         req.Inventory,
		ReservedInventory: req.ReservedInventory,
		LowStockThreshold: req.LowStockThreshold,
		Active:            req.Active,
		ShowOnHomepage:    req.ShowOnHomepage,
		ImageURL:          req.ImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/admin/products/{id}
// @Summary Delete a product without recorded sales
// @Tags admin
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id.String(), "status": "deleted"}})
}
