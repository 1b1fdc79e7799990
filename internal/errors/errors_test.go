package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
		wantDetail interface{}
	}{
		{"invalid request", InvalidRequestWithError(fmt.Errorf("bad json")), http.StatusBadRequest, CodeInvalidRequest, "bad json"},
		{"field validation", ErrValidation("alpha", "must be below 1"), http.StatusBadRequest, CodeValidationFailed, ValidationError{Field: "alpha", Message: "must be below 1"}},
		{"payload too large", PayloadTooLargeError(1024), http.StatusRequestEntityTooLarge, CodePayloadTooLarge, map[string]int64{"max_size": 1024}},
		{"invalid selection", InvalidSelectionError(fmt.Errorf("2015-2012")), http.StatusBadRequest, CodeInvalidSelection, "2015-2012"},
		{"dataset not found", DatasetNotFoundError("spy.csv"), http.StatusNotFound, CodeDatasetNotFound, "spy.csv"},
		{"unsupported format", UnsupportedFormatError("a.txt"), http.StatusBadRequest, CodeUnsupportedFormat, "a.txt"},
		{"dataset invalid", DatasetInvalidError(fmt.Errorf("line 2")), http.StatusUnprocessableEntity, CodeDatasetInvalid, "line 2"},
		{"empty subset", EmptySubsetError("first subset"), http.StatusUnprocessableEntity, CodeEmptySubset, "first subset"},
		{"internal", NewInternalError("boom"), http.StatusInternalServerError, CodeInternal, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.Equal(t, tt.wantDetail, tt.err.Details)
			assert.Equal(t, tt.err.Message, tt.err.Error())
		})
	}
}

func TestDatasetNotFoundMessage(t *testing.T) {
	assert.Equal(t, `dataset "spy.csv" not found`, DatasetNotFoundError("spy.csv").Error())
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusUnprocessableEntity, TypeEmptySubset, "Unprocessable Entity", "", "/api/compare").
		WithExtension("error_code", CodeEmptySubset).
		WithExtension("status", "overridden")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))

	assert.Equal(t, TypeEmptySubset, body["type"])
	assert.Equal(t, float64(http.StatusUnprocessableEntity), body["status"])
	assert.Equal(t, CodeEmptySubset, body["error_code"])
	assert.NotContains(t, body, "detail")
}

func TestProblemDetails_WithExtensionOnZeroValue(t *testing.T) {
	var problem ProblemDetails
	problem.WithExtension("trace_id", "abc")
	assert.Equal(t, "abc", problem.Extensions["trace_id"])
}
