package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fieldtrack.service/internal/core"
	"github.com/gorilla/mux"
)

type LocationHandler struct {
	Service *core.LocationService
}

type recordFixRequest struct {
	EmployeeID string   `json:"employeeId"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Speed      *float64 `json:"speed"`
	Accuracy   *float64 `json:"accuracy"`
	Battery    *float64 `json:"battery"`
	DeviceID   string   `json:"deviceId"`
	Timestamp  *int64   `json:"timestamp"`
}

func (h *LocationHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req recordFixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	fix, err := h.Service.Record(r.Context(), core.RecordFixInput{
		EmployeeID: req.EmployeeID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Speed:      req.Speed,
		Accuracy:   req.Accuracy,
		Battery:    req.Battery,
		DeviceID:   req.DeviceID,
		Timestamp:  req.Timestamp,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"location": fix,
	})
}

func (h *LocationHandler) Latest(w http.ResponseWriter, r *http.Request) {
	fixes, err := h.Service.LatestPerEmployee(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"locations": fixes,
		"count":     len(fixes),
	})
}

// Path serves the polyline view: the employee's fixes oldest first.
func (h *LocationHandler) Path(w http.ResponseWriter, r *http.Request) {
	employeeID := mux.Vars(r)["employeeId"]
	date := r.URL.Query().Get("date")

	fixes, err := h.Service.History(r.Context(), employeeID, date)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"locations": fixes,
		"count":     len(fixes),
	})
}

// Recent serves the activity-feed view: the same fixes newest first.
func (h *LocationHandler) Recent(w http.ResponseWriter, r *http.Request) {
	employeeID := mux.Vars(r)["employeeId"]
	date := r.URL.Query().Get("date")

	fixes, err := h.Service.RecentActivity(r.Context(), employeeID, date)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"locations": fixes,
		"count":     len(fixes),
	})
}

func (h *LocationHandler) Range(w http.ResponseWriter, r *http.Request) {
	employeeID := mux.Vars(r)["employeeId"]

	start, err := strconv.ParseInt(r.URL.Query().Get("start"), 10, 64)
	if err != nil {
		respondError(w, "start must be an epoch-millisecond timestamp", http.StatusBadRequest)
		return
	}
	end, err := strconv.ParseInt(r.URL.Query().Get("end"), 10, 64)
	if err != nil {
		respondError(w, "end must be an epoch-millisecond timestamp", http.StatusBadRequest)
		return
	}

	fixes, err := h.Service.HistoryRange(r.Context(), employeeID, start, end)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"locations": fixes,
		"count":     len(fixes),
	})
}
