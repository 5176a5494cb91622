package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mistvale/storefront/pkg/errors"
	"github.com/mistvale/storefront/pkg/logger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func writeError(err error, ctx context.Context) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/cloudbar-6000", nil)
	if ctx != nil {
		req = req.WithContext(ctx)
	}
	WriteError(rec, req, err, testLogger())
	return rec
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, Response{Data: map[string]string{"slug": "cloudbar-6000"}})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeResponse(t, rec)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestWriteJSON_OmitsUnsetEnvelopeFields(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusConflict, Response{
		Error: &ErrorResponse{Code: "ALREADY_EXISTS", Message: "slug taken"},
	})

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	assert.Contains(t, raw, "error")
	assert.NotContains(t, raw, "data")

	rec2 := httptest.NewRecorder()
	WriteJSON(rec2, http.StatusOK, Response{Data: "ok"})
	raw = map[string]json.RawMessage{}
	require.NoError(t, json.NewDecoder(rec2.Body).Decode(&raw))
	assert.NotContains(t, raw, "error")
}

func TestWriteError_Mapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"app error carries its own status", apperrors.NotFound("product", "abc-123"), http.StatusNotFound, "NOT_FOUND"},
		{"insufficient inventory conflicts", apperrors.InsufficientInventory("Mango Ice", 2, 5), http.StatusConflict, "INSUFFICIENT_INVENTORY"},
		{"bare not found sentinel", apperrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"already exists sentinel", apperrors.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
		{"invalid input sentinel", apperrors.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown error becomes 500", fmt.Errorf("pool exhausted"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := writeError(tt.err, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)

			resp := decodeResponse(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestWriteError_InternalErrorHidesDetail(t *testing.T) {
	rec := writeError(fmt.Errorf("pq: deadlock detected"), nil)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "an internal error occurred", resp.Error.Message)
	assert.NotContains(t, resp.Error.Message, "deadlock")
}

func TestWriteError_RequestIDFromCorrelationContext(t *testing.T) {
	ctx := logger.WithCorrelationID(context.Background(), "ord-corr-456")
	rec := writeError(apperrors.NotFound("flavor", "missing"), ctx)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ord-corr-456", resp.Error.RequestID)
}

func TestWriteError_RequestIDOmittedWithoutCorrelation(t *testing.T) {
	rec := writeError(apperrors.ErrNotFound, nil)

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))

	var errObj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["error"], &errObj))
	assert.NotContains(t, errObj, "request_id")
}

func TestWriteValidationError_NonValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, fmt.Errorf("decode request body: unexpected EOF"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestNewPaginatedResponse(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		page, perPage  int
		wantTotalPages int
		wantHasNext    bool
	}{
		{"partial last page", 25, 1, 10, 3, true},
		{"on the last page", 21, 3, 10, 3, false},
		{"exact division", 30, 2, 10, 3, true},
		{"empty catalog", 0, 1, 20, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewPaginatedResponse([]string{"cloudbar-6000"}, tt.total, tt.page, tt.perPage)
			assert.Equal(t, tt.wantTotalPages, resp.TotalPages)
			assert.Equal(t, tt.wantHasNext, resp.HasNext)
			assert.Equal(t, tt.total, resp.TotalCount)
		})
	}
}

func TestNewPaginatedResponse_NilSliceSerializesAsEmptyArray(t *testing.T) {
	resp := NewPaginatedResponse[string](nil, 0, 1, 20)
	require.NotNil(t, resp.Data)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"data":[]`)
}

func TestParseUUID(t *testing.T) {
	t.Run("valid id passes through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		id, ok := ParseUUID(rec, "550e8400-e29b-41d4-a716-446655440000")

		assert.True(t, ok)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
		assert.Equal(t, http.StatusOK, rec.Code, "no response written on success")
	})

	t.Run("uppercase is normalized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		id, ok := ParseUUID(rec, "550E8400-E29B-41D4-A716-446655440000")

		assert.True(t, ok)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
	})

	for _, bad := range []string{"", "cloudbar-6000", "abc123"} {
		t.Run("rejects "+fmt.Sprintf("%q", bad), func(t *testing.T) {
			rec := httptest.NewRecorder()
			_, ok := ParseUUID(rec, bad)

			assert.False(t, ok)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeResponse(t, rec)
			assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
		})
	}
}
