package http

import (
	"encoding/json"
	"net/http"

	apperrors "agendamento/pkg/errors"
)

// DegradedWarning accompanies every response served from the local cache.
const DegradedWarning = "Remote store unavailable, served from local cache"

type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data any `json:"data,omitempty"`
}

// DegradedResponse carries data served from the local cache while the remote store is unreachable.
type DegradedResponse struct {
	Data     any    `json:"data,omitempty"`
	Degraded bool   `json:"degraded"`
	Warning  string `json:"warning,omitempty"`
}

type ListResponse struct {
	Data       any  `json:"data"`
	TotalCount int  `json:"total_count"`
	Degraded   bool `json:"degraded,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, err error) {
	appErr := apperrors.AsAppError(err)

	message := appErr.Message
	if appErr.Code == apperrors.CodeInternal {
		message = "Internal server error"
	}

	_ = WriteJSON(w, appErr.StatusCode(), ErrorResponse{
		Error:   message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}

// WriteResult writes data with 200, flagging the body when it came from the cache fallback.
func WriteResult(w http.ResponseWriter, statusCode int, data any, degraded bool, warning string) error {
	if !degraded {
		return WriteJSON(w, statusCode, SuccessResponse{Data: data})
	}
	return WriteJSON(w, statusCode, DegradedResponse{Data: data, Degraded: true, Warning: warning})
}

func WriteList(w http.ResponseWriter, data any, total int, degraded bool) error {
	return WriteJSON(w, http.StatusOK, ListResponse{
		Data:       data,
		TotalCount: total,
		Degraded:   degraded,
	})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
