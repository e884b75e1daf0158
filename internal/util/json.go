package util

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// WriteJSON writes v with status 200.
func WriteJSON(w http.ResponseWriter, v any) {
	WriteJSONStatus(w, http.StatusOK, v)
}

func WriteJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// ErrorBody is the envelope of every JSON error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Kind    string `json:"kind,omitempty" example:"network"`
	Message string `json:"message" example:"unable to connect to webhook URL"`
	Status  int    `json:"status,omitempty" example:"500"`
}

// WriteError writes an ErrorBody with the given HTTP status.
func WriteError(w http.ResponseWriter, status int, kind, message string) {
	WriteJSONStatus(w, status, ErrorBody{Error: ErrorDetail{Kind: kind, Message: message}})
}
