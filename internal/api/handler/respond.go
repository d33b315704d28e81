package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"fieldtrack.service/internal/core"
	"fieldtrack.service/internal/ports/store"
	"github.com/rs/zerolog/log"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps domain errors to HTTP statuses. Store failures
// and anything unexpected come back as a generic 500; internals never reach
// the response body.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrMissingFields):
		respondError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, core.ErrInvalidCredentials):
		respondError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, core.ErrEmployeeNotFound), errors.Is(err, core.ErrNoActiveSession):
		respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, core.ErrDuplicateEmployee), errors.Is(err, core.ErrAlreadyClockedIn):
		respondError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, store.ErrUnavailable):
		log.Ctx(r.Context()).Error().Err(err).Msg("Store unavailable")
		respondError(w, "service temporarily unavailable", http.StatusInternalServerError)
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg("Unexpected service error")
		respondError(w, "internal server error", http.StatusInternalServerError)
	}
}
