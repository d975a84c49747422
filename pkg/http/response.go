package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"hotelbox/pkg/action"
	apperrors "hotelbox/pkg/errors"
	"hotelbox/pkg/model"
)

type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type PaginatedResponse struct {
	Data       any              `json:"data"`
	Pagination model.Pagination `json:"pagination"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, action.ErrPending):
		return WriteJSON(w, http.StatusConflict, ErrorResponse{
			Error: action.PendingMessage,
			Code:  apperrors.CodePending,
		})
	case errors.Is(err, action.ErrCancelled):
		return WriteJSON(w, http.StatusConflict, ErrorResponse{
			Error: action.CancelledMessage,
			Code:  apperrors.CodeConflict,
		})
	}

	if appErr := apperrors.AsAppError(err); appErr != nil {
		return WriteJSON(w, appErr.StatusCode(), ErrorResponse{
			Error:   appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		})
	}

	return WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "Internal server error",
		Code:  apperrors.CodeInternal,
	})
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func WritePaginated(w http.ResponseWriter, data any, pagination model.Pagination) error {
	return WriteJSON(w, http.StatusOK, PaginatedResponse{
		Data:       data,
		Pagination: pagination,
	})
}

// WriteResult answers an action run. A failed Result is an expected remote
// failure and goes out as 502 with the user facing message.
func WriteResult(w http.ResponseWriter, res action.Result, data any, err error) error {
	if err != nil {
		return WriteError(w, err)
	}
	if !res.Success {
		return WriteJSON(w, http.StatusBadGateway, ErrorResponse{
			Error: res.Message,
			Code:  apperrors.CodeUpstream,
		})
	}
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data, Message: res.Message})
}
