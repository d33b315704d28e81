package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"fieldtrack.service/internal/api/handler"
	"fieldtrack.service/internal/core"
)

// NewRouter sets up the gorilla/mux router and defines all API routes.
func NewRouter(directory *core.DirectoryService, locations *core.LocationService, attendance *core.AttendanceService) *mux.Router {

	employeeHandler := handler.EmployeeHandler{Service: directory}
	locationHandler := handler.LocationHandler{Service: locations}
	attendanceHandler := handler.AttendanceHandler{Service: attendance}

	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/employees", employeeHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/employees", employeeHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/employees/{employeeId}", employeeHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/employees/{employeeId}/password", employeeHandler.ChangePassword).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", employeeHandler.Login).Methods(http.MethodPost)

	api.HandleFunc("/locations", locationHandler.Record).Methods(http.MethodPost)
	api.HandleFunc("/locations/latest", locationHandler.Latest).Methods(http.MethodGet)
	api.HandleFunc("/employees/{employeeId}/locations/path", locationHandler.Path).Methods(http.MethodGet)
	api.HandleFunc("/employees/{employeeId}/locations/recent", locationHandler.Recent).Methods(http.MethodGet)
	api.HandleFunc("/employees/{employeeId}/locations/range", locationHandler.Range).Methods(http.MethodGet)

	api.HandleFunc("/attendance/clock-in", attendanceHandler.ClockIn).Methods(http.MethodPost)
	api.HandleFunc("/attendance/clock-out", attendanceHandler.ClockOut).Methods(http.MethodPost)
	api.HandleFunc("/attendance/{employeeId}/status", attendanceHandler.Status).Methods(http.MethodGet)
	api.HandleFunc("/attendance/stats", attendanceHandler.DailyStats).Methods(http.MethodGet)

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	return r
}
