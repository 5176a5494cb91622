package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mistvale/storefront/internal/service"
	"github.com/mistvale/storefront/pkg/httputil"
	"github.com/mistvale/storefront/pkg/pagination"
	"github.com/mistvale/storefront/pkg/validator"
)

// AffiliateHandler handles HTTP requests for the affiliate program.
type AffiliateHandler struct {
	service *service.AffiliateService
	logger  *slog.Logger
}

// NewAffiliateHandler creates a new affiliate HTTP handler.
func NewAffiliateHandler(svc *service.AffiliateService, logger *slog.Logger) *AffiliateHandler {
	return &AffiliateHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// ApplyRequest is the JSON request body for an affiliate application.
type ApplyRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Email string `json:"email" validate:"required,email"`
}

// UpdateAffiliateStatusRequest is the JSON request body for a status change.
type UpdateAffiliateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

// --- Public handlers ---

// Apply handles POST /api/v1/affiliates/apply
// @Summary Apply to the affiliate program
// @Tags affiliates
// @Accept json
// @Produce json
// @Param request body ApplyRequest true "Applicant details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/affiliates/apply [post]
func (h *AffiliateHandler) Apply(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ApplyRequest
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

	affiliate, err := h.service.Apply(r.Context(), service.ApplyInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: affiliate})
}

// GetByCode handles GET /api/v1/affiliates/{code}
// @Summary Resolve an approved affiliate by referral code
// @Tags affiliates
// @Produce json
// @Param code path string true "Referral code"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/affiliates/{code} [get]
func (h *AffiliateHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "referral code is required"},
		})
		return
	}

	affiliate, err := h.service.GetByCode(r.Context(), code)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: affiliate})
}

// --- Admin handlers ---

// ListAffiliates handles GET /api/v1/admin/affiliates
// @Summary List affiliate applications
// @Tags admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(20)
// @Param status query string false "Filter by status" Enums(pending,approved,rejected)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/affiliates [get]
func (h *AffiliateHandler) ListAffiliates(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	status := r.URL.Query().Get("status")

	affiliates, total, err := h.service.ListAffiliates(r.Context(), status, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(affiliates, total, params.Page, params.PerPage))
}

// UpdateStatus handles PUT /api/v1/admin/affiliates/{id}/status
// @Summary Approve or reject an affiliate application
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Affiliate UUID"
// @Param request body UpdateAffiliateStatusRequest true "New status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/affiliates/{id}/status [put]
func (h *AffiliateHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateAffiliateStatusRequest
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

	affiliate, err := h.service.UpdateStatus(r.Context(), id.String(), req.Status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: affiliate})
}
