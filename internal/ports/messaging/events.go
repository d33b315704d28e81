package messaging

import "time"

// ClockOutEvent is the JSON payload published to the notification queue
// after a successful clock-out.
type ClockOutEvent struct {
	AttendanceID string    `json:"attendanceId"`
	EmployeeID   string    `json:"employeeId"`
	Date         string    `json:"date"`
	ClockInTime  time.Time `json:"clockInTime"`
	ClockOutTime time.Time `json:"clockOutTime"`
	HoursWorked  float64   `json:"hoursWorked"`
}
