package errors

import (
	"encoding/json"
	"errors"
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
		wantMsg    string
	}{
		{"not found", NotFoundError("country Atlantis"), http.StatusNotFound, CodeNotFound, "country Atlantis not found"},
		{"no data", NoDataError("Benin"), http.StatusNotFound, CodeNoData, "no data available for Benin"},
		{"metric unavailable", MetricUnavailableError("WSgust"), http.StatusNotFound, CodeMetricUnavailable, "metric WSgust is not available in the loaded data"},
		{"unsupported format", UnsupportedFormatError("pdf"), http.StatusBadRequest, CodeUnsupportedFormat, `unsupported export format "pdf"`},
		{"corrupted", DataCorruptedError(errors.New("bad row")), http.StatusInternalServerError, CodeDataCorrupted, "data file could not be parsed"},
		{"export", ExportError(errors.New("disk full")), http.StatusInternalServerError, CodeExportFailed, "export generation failed"},
		{"validation", ErrValidation("bins", "must be at most 500"), http.StatusBadRequest, CodeValidationFailed, "Request validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestErrValidationDetails(t *testing.T) {
	err := ErrValidation("metric", "must be alphanumeric")

	details, ok := err.Details.(ValidationErrors)
	require.True(t, ok)
	require.Len(t, details.Errors, 1)
	assert.Equal(t, "metric", details.Errors[0].Field)
	assert.Equal(t, "must be alphanumeric", details.Errors[0].Message)
}

func TestAPIErrorUnwrapsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("compare: %w", MetricUnavailableError("GHI"))

	var apiErr *APIError
	require.True(t, errors.As(wrapped, &apiErr))
	assert.Equal(t, CodeMetricUnavailable, apiErr.ErrorCode)
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusNotFound, TypeDataNotFound, "Not Found", "no data available for Togo", "/api/data/countries/Togo/overview").
		WithExtension("error_code", CodeNoData).
		WithExtension("trace_id", "req-1")

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, TypeDataNotFound, body["type"])
	assert.Equal(t, "Not Found", body["title"])
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
	assert.Equal(t, "no data available for Togo", body["detail"])
	assert.Equal(t, "/api/data/countries/Togo/overview", body["instance"])
	assert.Equal(t, CodeNoData, body["error_code"])
	assert.Equal(t, "req-1", body["trace_id"])
}

func TestProblemDetailsStandardMembersWin(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "", "").
		WithExtension("status", 999)

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, float64(http.StatusBadRequest), body["status"])
	assert.NotContains(t, body, "detail")
	assert.NotContains(t, body, "instance")
}

func TestWithExtensionOnZeroValue(t *testing.T) {
	var problem ProblemDetails
	assert.NotPanics(t, func() { problem.WithExtension("k", "v") })
	assert.Equal(t, "v", problem.Extensions["k"])
}
