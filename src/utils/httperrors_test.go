package utils_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPErrorFrom(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		kind apperrors.Kind
	}{
		{"invalid asset", apperrors.InvalidAsset("cost must not be negative"), http.StatusBadRequest, apperrors.KindInvalidAsset},
		{"invalid request", apperrors.InvalidRequest("client name is required"), http.StatusBadRequest, apperrors.KindInvalidRequest},
		{"import", apperrors.ImportValidation(2, "cost", "is required"), http.StatusBadRequest, apperrors.KindImportValidation},
		{"unauthorized", apperrors.Unauthorized("invalid credentials"), http.StatusUnauthorized, apperrors.KindUnauthorized},
		{"forbidden", apperrors.Forbidden("admin role required"), http.StatusForbidden, apperrors.KindForbidden},
		{"not found", fmt.Errorf("get: %w", apperrors.NotFound("asset not found")), http.StatusNotFound, apperrors.KindNotFound},
		{"conflict", apperrors.Conflict("asset is archived"), http.StatusConflict, apperrors.KindConflict},
		{"rate limited", apperrors.RateLimited("rate limit exceeded"), http.StatusTooManyRequests, apperrors.KindRateLimited},
		{"timeout", apperrors.Timeout("recompute timed out"), http.StatusGatewayTimeout, apperrors.KindTimeout},
		{"persistence", apperrors.Persistence("failed to list assets", errors.New("dial tcp")), http.StatusInternalServerError, apperrors.KindPersistence},
		{"foreign", errors.New("boom"), http.StatusInternalServerError, apperrors.KindPersistence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := utils.HTTPErrorFrom(tt.err)
			assert.Equal(t, tt.code, httpErr.Code)
			assert.Equal(t, tt.kind, httpErr.Kind)
		})
	}
}

func TestHTTPErrorFromHidesStoreErrors(t *testing.T) {
	err := apperrors.Persistence("failed to update asset", errors.New(`pq: password authentication failed for user "root"`))
	httpErr := utils.HTTPErrorFrom(err)
	assert.Equal(t, "Internal Server Error", httpErr.Message)
}

func TestHTTPErrorFromDeadline(t *testing.T) {
	err := apperrors.Persistence("failed to list assets", context.DeadlineExceeded)
	httpErr := utils.HTTPErrorFrom(err)
	assert.Equal(t, http.StatusGatewayTimeout, httpErr.Code)
	assert.Equal(t, apperrors.KindTimeout, httpErr.Kind)
	assert.Equal(t, "Request timed out", httpErr.Message)
}

func TestHTTPErrorFromPassesHTTPErrors(t *testing.T) {
	first := utils.HTTPErrorFrom(apperrors.InvalidRequest("invalid JSON body"))
	httpErr := utils.HTTPErrorFrom(first)
	assert.Same(t, first, httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Equal(t, apperrors.KindInvalidRequest, httpErr.Kind)
}

func TestWriteErrorAlwaysHasKind(t *testing.T) {
	for _, err := range []error{
		apperrors.InvalidRequest("invalid JSON body: unexpected EOF"),
		apperrors.RateLimited("rate limit exceeded"),
		context.DeadlineExceeded,
		errors.New("boom"),
	} {
		rec := httptest.NewRecorder()
		utils.WriteError(rec, err)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["kind"], err.Error())
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	utils.WriteError(rec, apperrors.ImportValidation(3, "purchase_date", "must be a YYYY-MM-DD date"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "import_validation_failure", body["kind"])
	assert.Equal(t, "row 3: purchase_date must be a YYYY-MM-DD date", body["error"])
	assert.Equal(t, float64(3), body["row"])
	assert.Equal(t, "purchase_date", body["field"])
}
