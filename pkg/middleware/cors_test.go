package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveCORS(cfg CORSConfig, method, origin string) *httptest.ResponseRecorder {
	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, "/api/v1/catalog", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORS_OriginHandling(t *testing.T) {
	prodCfg := CORSConfig{
		AllowedOrigins: []string{"https://shop.mistvale.com", "https://admin.mistvale.com"},
		Environment:    "production",
	}

	tests := []struct {
		name       string
		cfg        CORSConfig
		origin     string
		wantOrigin string
	}{
		{
			name:       "development allows any origin via wildcard",
			cfg:        CORSConfig{AllowedOrigins: []string{"https://shop.mistvale.com"}, Environment: "development"},
			origin:     "https://anything.example.com",
			wantOrigin: "*",
		},
		{
			name:       "development wildcard applies without an Origin header",
			cfg:        CORSConfig{AllowedOrigins: []string{"https://shop.mistvale.com"}, Environment: "development"},
			wantOrigin: "*",
		},
		{
			name:       "production echoes a listed origin",
			cfg:        prodCfg,
			origin:     "https://shop.mistvale.com",
			wantOrigin: "https://shop.mistvale.com",
		},
		{
			name:       "production echoes the second listed origin",
			cfg:        prodCfg,
			origin:     "https://admin.mistvale.com",
			wantOrigin: "https://admin.mistvale.com",
		},
		{
			name:       "production omits the header for an unlisted origin",
			cfg:        prodCfg,
			origin:     "https://evil.example.com",
			wantOrigin: "",
		},
		{
			name:       "production omits the header without an Origin header",
			cfg:        prodCfg,
			wantOrigin: "",
		},
		{
			name:       "explicit wildcard entry allows all even in production",
			cfg:        CORSConfig{AllowedOrigins: []string{"*"}, Environment: "production"},
			origin:     "https://anything.example.com",
			wantOrigin: "*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveCORS(tt.cfg, http.MethodGet, tt.origin)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORS_VaryOriginOnEcho(t *testing.T) {
	cfg := CORSConfig{AllowedOrigins: []string{"https://shop.mistvale.com"}, Environment: "production"}
	rec := serveCORS(cfg, http.MethodGet, "https://shop.mistvale.com")
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	cfg := CORSConfig{AllowedOrigins: []string{"*"}, Environment: "development"}
	rec := serveCORS(cfg, http.MethodOptions, "https://shop.mistvale.com")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String(), "preflight must not reach the handler")
}

func TestCORS_DefaultHeaderValues(t *testing.T) {
	rec := serveCORS(CORSConfig{Environment: "development"}, http.MethodGet, "")

	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Accept, Authorization, Content-Type, X-Correlation-ID", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_ExplicitHeaderValues(t *testing.T) {
	cfg := CORSConfig{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		MaxAge:           600,
		AllowCredentials: true,
		Environment:      "production",
	}
	rec := serveCORS(cfg, http.MethodGet, "https://shop.mistvale.com")

	assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "X-Correlation-ID", rec.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()

	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 3600, cfg.MaxAge)
	assert.False(t, cfg.AllowCredentials)
}
