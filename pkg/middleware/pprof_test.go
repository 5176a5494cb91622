package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allowlistLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serveAllowlist(t *testing.T, cidrs []string, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	handler := IPAllowlist(cidrs, allowlistLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIPAllowlist(t *testing.T) {
	opsNet := []string{"127.0.0.1/32", "10.8.0.0/16", "::1/128"}

	tests := []struct {
		name       string
		cidrs      []string
		remoteAddr string
		wantStatus int
	}{
		{"loopback allowed", opsNet, "127.0.0.1:52811", http.StatusOK},
		{"ops VPN range allowed", opsNet, "10.8.3.44:9000", http.StatusOK},
		{"IPv6 loopback allowed", opsNet, "[::1]:52811", http.StatusOK},
		{"public address denied", opsNet, "203.0.113.9:52811", http.StatusForbidden},
		{"address without port still evaluated", opsNet, "127.0.0.1", http.StatusOK},
		{"unparseable address denied", opsNet, "not-an-ip", http.StatusForbidden},
		{"empty allowlist denies everything", nil, "127.0.0.1:52811", http.StatusForbidden},
		{"invalid CIDR skipped, valid one still applies", []string{"bogus/99", "127.0.0.1/32"}, "127.0.0.1:52811", http.StatusOK},
		{"only invalid CIDRs denies everything", []string{"bogus/99"}, "127.0.0.1:52811", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveAllowlist(t, tt.cidrs, tt.remoteAddr)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestIPAllowlist_DeniedResponseBody(t *testing.T) {
	rec := serveAllowlist(t, []string{"127.0.0.1/32"}, "203.0.113.9:52811")

	require.Equal(t, http.StatusForbidden, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "FORBIDDEN", body["code"])
}

func pprofRouter(cidrs []string) *chi.Mux {
	r := chi.NewRouter()
	RegisterPprof(r, cidrs, allowlistLogger())
	return r
}

func TestRegisterPprof_IndexReachableFromAllowedIP(t *testing.T) {
	r := pprofRouter([]string{"127.0.0.1/32"})

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
	req.RemoteAddr = "127.0.0.1:40000"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterPprof_DeniedFromOutsideAllowlist(t *testing.T) {
	r := pprofRouter([]string{"127.0.0.1/32"})

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
	req.RemoteAddr = "203.0.113.9:40000"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRegisterPprof_NamedProfiles(t *testing.T) {
	r := pprofRouter([]string{"127.0.0.1/32"})

	for _, path := range []string{"/debug/pprof/cmdline", "/debug/pprof/symbol", "/debug/pprof/heap"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "127.0.0.1:40000"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
