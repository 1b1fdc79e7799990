package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kscompare/internal/infrastructure"
	"kscompare/internal/shared/testutil"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestNewErrorHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	handler := NewErrorHandler(logger, true)
	assert.True(t, handler.includeStack)
	assert.NotNil(t, handler.logger)
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantCode   string
	}{
		{
			name:       "context deadline exceeded",
			err:        fmt.Errorf("compare: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "context canceled",
			err:        context.Canceled,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "invalid request",
			err:        ErrInvalidRequest,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantCode:   CodeInvalidRequest,
		},
		{
			name:       "invalid selection",
			err:        InvalidSelectionError(fmt.Errorf("malformed years")),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeInvalidSelection,
			wantCode:   CodeInvalidSelection,
		},
		{
			name:       "dataset not found",
			err:        DatasetNotFoundError("spy.csv"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeDatasetNotFound,
			wantCode:   CodeDatasetNotFound,
		},
		{
			name:       "wrapped empty subset",
			err:        fmt.Errorf("handler: %w", EmptySubsetError("second subset")),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeEmptySubset,
			wantCode:   CodeEmptySubset,
		},
		{
			name:       "unsupported format",
			err:        UnsupportedFormatError("prices.json"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeUnsupportedFormat,
			wantCode:   CodeUnsupportedFormat,
		},
		{
			name:       "dataset invalid",
			err:        DatasetInvalidError(fmt.Errorf("line 3: invalid date")),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDatasetInvalid,
			wantCode:   CodeDatasetInvalid,
		},
		{
			name:       "body over limit",
			err:        fmt.Errorf("read body: %w", &http.MaxBytesError{Limit: 1024}),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
			wantCode:   CodePayloadTooLarge,
		},
		{
			name:       "not found text is not trusted",
			err:        fmt.Errorf("report not found"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
		{
			name:       "unknown error",
			err:        fmt.Errorf("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodPost, "/api/compare", nil)
			req = req.WithContext(infrastructure.WithTraceID(req.Context(), "trace-1"))
			rec := httptest.NewRecorder()

			handler.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/compare", body["instance"])
			assert.Equal(t, "trace-1", body["trace_id"])
			assert.NotContains(t, body, "stack")
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["error_code"])
			}

			assert.True(t, logs.ContainsMessage("request failed"))
			assert.True(t, logs.ContainsAttr("component", "error_handler"))
		})
	}
}

func TestErrorHandler_NilError(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	handler.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Zero(t, rec.Body.Len())
	assert.Zero(t, logs.Count())
}

func TestErrorHandler_IncludeStack(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)

	rec := httptest.NewRecorder()
	handler.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("boom"))

	body := decodeProblem(t, rec)
	assert.NotEmpty(t, body["stack"])
}

func TestErrorHandler_ValidationDetails(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	err := NewValidationErrors([]ValidationError{
		{Field: "dataset", Message: "required"},
		{Field: "days_b", Message: "unknown weekday"},
	})

	rec := httptest.NewRecorder()
	handler.HandleError(rec, httptest.NewRequest(http.MethodPost, "/api/compare", nil), err)

	body := decodeProblem(t, rec)
	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, details["errors"], 2)
}

func TestErrorHandler_NotFoundAndMethod(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	handler.NotFound(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, rec)["type"])

	rec = httptest.NewRecorder()
	handler.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/compare", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, decodeProblem(t, rec)["detail"], "DELETE")
}
