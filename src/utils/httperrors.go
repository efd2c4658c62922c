package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Jshatto/asset-tracker/src/apperrors"
)

// HTTPError is the JSON body of every failed request.
type HTTPError struct {
	Code    int            `json:"-"`
	Kind    apperrors.Kind `json:"kind,omitempty"`
	Message string         `json:"error"`
	Row     int            `json:"row,omitempty"`
	Field   string         `json:"field,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

var statusByKind = map[apperrors.Kind]int{
	apperrors.KindInvalidAsset:     http.StatusBadRequest,
	apperrors.KindImportValidation: http.StatusBadRequest,
	apperrors.KindInvalidRequest:   http.StatusBadRequest,
	apperrors.KindUnauthorized:     http.StatusUnauthorized,
	apperrors.KindForbidden:        http.StatusForbidden,
	apperrors.KindNotFound:         http.StatusNotFound,
	apperrors.KindConflict:         http.StatusConflict,
	apperrors.KindRateLimited:      http.StatusTooManyRequests,
	apperrors.KindTimeout:          http.StatusGatewayTimeout,
	apperrors.KindPersistence:      http.StatusInternalServerError,
}

const internalErrorMessage = "Internal Server Error"

// HTTPErrorFrom maps any error onto the response a caller may see. Store
// failures and unknown errors collapse into a generic 500 so driver details
// never leave the process.
func HTTPErrorFrom(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		err = apperrors.Timeout("Request timed out")
	}

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperrors.KindPersistence {
		return &HTTPError{
			Code:    http.StatusInternalServerError,
			Kind:    apperrors.KindPersistence,
			Message: internalErrorMessage,
		}
	}

	code, ok := statusByKind[appErr.Kind]
	if !ok {
		code = http.StatusInternalServerError
	}
	return &HTTPError{
		Code:    code,
		Kind:    appErr.Kind,
		Message: appErr.Message,
		Row:     appErr.Row,
		Field:   appErr.Field,
	}
}

// WriteError sends err as a JSON error response.
func WriteError(w http.ResponseWriter, err error) {
	httpErr := HTTPErrorFrom(err)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(httpErr.Code)
	_ = json.NewEncoder(w).Encode(httpErr)
}
