package handler

import (
	"encoding/json"
	"net/http"

	"fieldtrack.service/internal/core"
	"github.com/gorilla/mux"
)

type AttendanceHandler struct {
	Service *core.AttendanceService
}

type clockRequest struct {
	EmployeeID string `json:"employeeId"`
}

func (h *AttendanceHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req clockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.Service.ClockIn(r.Context(), req.EmployeeID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"attendance": record,
	})
}

func (h *AttendanceHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req clockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.Service.ClockOut(r.Context(), req.EmployeeID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"attendance": record,
	})
}

func (h *AttendanceHandler) Status(w http.ResponseWriter, r *http.Request) {
	employeeID := mux.Vars(r)["employeeId"]

	record, clockedIn, err := h.Service.Status(r.Context(), employeeID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"isClockedIn": clockedIn,
		"attendance":  record,
	})
}

func (h *AttendanceHandler) DailyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.DailyStats(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}
