package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mistvale/storefront/internal/service"
	"github.com/mistvale/storefront/pkg/httputil"
)

// HomepageHandler handles HTTP requests for homepage content sections.
type HomepageHandler struct {
	service *service.HomepageService
	logger  *slog.Logger
}

// NewHomepageHandler creates a new homepage HTTP handler.
func NewHomepageHandler(svc *service.HomepageService, logger *slog.Logger) *HomepageHandler {
	return &HomepageHandler{
		service: svc,
		logger:  logger,
	}
}

// GetSection handles GET /api/v1/homepage/{key}
// @Summary Get a homepage content section
// @Tags homepage
// @Produce json
// @Param key path string true "Section key"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/homepage/{key} [get]
func (h *HomepageHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	section, err := h.service.GetSection(r.Context(), key)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: section})
}

// ListSectionKeys handles GET /api/v1/admin/homepage
// @Summary List homepage section keys
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/homepage [get]
func (h *HomepageHandler) ListSectionKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.service.ListSectionKeys(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: keys})
}

// UpsertSection handles PUT /api/v1/admin/homepage/{key}
// @Summary Create or replace a homepage content section
// @Description Content is stored as opaque JSON; the backend never interprets its shape
// @Tags admin
// @Accept json
// @Produce json
// @Param key path string true "Section key"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/admin/homepage/{key} [put]
func (h *HomepageHandler) UpsertSection(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var content json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&content); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	section, err := h.service.UpsertSection(r.Context(), key, content)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: section})
}
