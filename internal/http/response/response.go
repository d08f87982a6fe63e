package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"internhub/internal/common"
)

// ErrorCollector counts 5xx responses; wired once at startup.
type ErrorCollector interface {
	IncErrors()
}

var errorCollector ErrorCollector

func SetErrorCollector(collector ErrorCollector) {
	errorCollector = collector
}

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := errorBody{Error: string(common.CodeInternal), Message: "internal error"}

	var appErr *common.Error
	if errors.As(err, &appErr) {
		status = statusFor(appErr.Code)
		body = errorBody{Error: string(appErr.Code), Message: appErr.Message, Fields: appErr.Fields}
	}
	if status >= http.StatusInternalServerError && errorCollector != nil {
		errorCollector.IncErrors()
	}
	JSON(w, status, body)
}

func statusFor(code common.Code) int {
	switch code {
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
