// File: internal/handlers/response.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jvidalgz/go-gympulse/internal/services"
)

// apiResponse is the envelope every endpoint answers with.
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, apiResponse{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{Success: true, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{Success: false, Message: message})
}

// writeServiceError maps service-layer sentinel errors onto HTTP
// statuses. Unknown errors stay generic: details live in the server
// logs, not in the response.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrForbidden):
		writeError(w, http.StatusForbidden, "you do not have permission to perform this action")
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	default:
		writeJSON(w, http.StatusInternalServerError, apiResponse{
			Success: false,
			Message: "internal server error",
			Error:   "internal_error",
		})
	}
}
