package handler

import (
	"encoding/json"
	"net/http"

	"fieldtrack.service/internal/core"
	"fieldtrack.service/internal/core/model"
	"github.com/gorilla/mux"
)

type EmployeeHandler struct {
	Service *core.DirectoryService
}

type createEmployeeRequest struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	DeviceID   string `json:"deviceId"`
	Password   string `json:"password"`
}

type loginRequest struct {
	EmployeeID string `json:"employeeId"`
	Password   string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	employee, err := h.Service.Create(r.Context(), model.Employee{
		EmployeeID: req.EmployeeID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
		DeviceID:   req.DeviceID,
		Password:   req.Password,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"employee": employee.Profile(),
	})
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	employeeID := mux.Vars(r)["employeeId"]

	employee, err := h.Service.Get(r.Context(), employeeID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"employee": employee.Profile(),
	})
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.List(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	profiles := make([]model.Profile, 0, len(employees))
	for _, employee := range employees {
		profiles = append(profiles, employee.Profile())
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"employees": profiles,
		"count":     len(profiles),
	})
}

func (h *EmployeeHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.Service.Authenticate(r.Context(), req.EmployeeID, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"employee": profile,
	})
}

func (h *EmployeeHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	employeeID := mux.Vars(r)["employeeId"]

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.ChangePassword(r.Context(), employeeID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password updated.",
	})
}
