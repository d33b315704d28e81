package model

import (
	"time"
)

// EmployeeStatus tracks whether an employee's device has reported recently.
type EmployeeStatus string

const (
	StatusEmployeeActive   EmployeeStatus = "active"
	StatusEmployeeInactive EmployeeStatus = "inactive"
)

// AttendanceStatus is the per-day attendance state. Clock-in initializes the
// record to present; "currently clocked in" means present with no clock-out.
type AttendanceStatus string

const (
	StatusAttendancePresent AttendanceStatus = "present"
)

// Employee is a directory record. Password is stored as supplied; handlers
// expose Profile instead of this struct so the credential never leaves the
// directory.
type Employee struct {
	EmployeeID    string         `json:"employeeId" dynamodbav:"employeeId"`
	Name          string         `json:"name" dynamodbav:"name"`
	Email         string         `json:"email,omitempty" dynamodbav:"email"`
	Phone         string         `json:"phone,omitempty" dynamodbav:"phone"`
	Department    string         `json:"department,omitempty" dynamodbav:"department"`
	DeviceID      string         `json:"deviceId,omitempty" dynamodbav:"deviceId"`
	Password      string         `json:"password" dynamodbav:"password"`
	PasswordSet   bool           `json:"passwordSet" dynamodbav:"passwordSet"`
	Status        EmployeeStatus `json:"status" dynamodbav:"status"`
	IsActive      bool           `json:"isActive" dynamodbav:"isActive"`
	CreatedAt     time.Time      `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt" dynamodbav:"updatedAt"`
	LastLatitude  *float64       `json:"lastLatitude,omitempty" dynamodbav:"lastLatitude,omitempty"`
	LastLongitude *float64       `json:"lastLongitude,omitempty" dynamodbav:"lastLongitude,omitempty"`
	LastSeenAt    *time.Time     `json:"lastSeenAt,omitempty" dynamodbav:"lastSeenAt,omitempty"`
}

// Profile is the employee record as returned to clients: everything except
// the password, plus the password-change hint computed at read time.
type Profile struct {
	EmployeeID             string         `json:"employeeId"`
	Name                   string         `json:"name"`
	Email                  string         `json:"email,omitempty"`
	Phone                  string         `json:"phone,omitempty"`
	Department             string         `json:"department,omitempty"`
	DeviceID               string         `json:"deviceId,omitempty"`
	Status                 EmployeeStatus `json:"status"`
	IsActive               bool           `json:"isActive"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
	LastLatitude           *float64       `json:"lastLatitude,omitempty"`
	LastLongitude          *float64       `json:"lastLongitude,omitempty"`
	LastSeenAt             *time.Time     `json:"lastSeenAt,omitempty"`
	RequiresPasswordChange bool           `json:"requiresPasswordChange"`
}

// Profile strips the credential and derives the password-change hint.
func (e Employee) Profile() Profile {
	return Profile{
		EmployeeID:             e.EmployeeID,
		Name:                   e.Name,
		Email:                  e.Email,
		Phone:                  e.Phone,
		Department:             e.Department,
		DeviceID:               e.DeviceID,
		Status:                 e.Status,
		IsActive:               e.IsActive,
		CreatedAt:              e.CreatedAt,
		UpdatedAt:              e.UpdatedAt,
		LastLatitude:           e.LastLatitude,
		LastLongitude:          e.LastLongitude,
		LastSeenAt:             e.LastSeenAt,
		RequiresPasswordChange: !e.PasswordSet,
	}
}

// LocationFix is a single reported GPS sample. Immutable once written.
// LocationID is employeeId_epochMillis; Date and TimeOfDay are derived from
// the capture instant for filtering.
type LocationFix struct {
	LocationID string  `json:"locationId" dynamodbav:"locationId"`
	EmployeeID string  `json:"employeeId" dynamodbav:"employeeId"`
	Latitude   float64 `json:"latitude" dynamodbav:"latitude"`
	Longitude  float64 `json:"longitude" dynamodbav:"longitude"`
	Speed      float64 `json:"speed" dynamodbav:"speed"`
	Accuracy   float64 `json:"accuracy" dynamodbav:"accuracy"`
	Battery    float64 `json:"battery" dynamodbav:"battery"`
	DeviceID   string  `json:"deviceId,omitempty" dynamodbav:"deviceId"`
	Timestamp  int64   `json:"timestamp" dynamodbav:"timestamp"`
	Date       string  `json:"date" dynamodbav:"date"`
	TimeOfDay  string  `json:"timeOfDay" dynamodbav:"timeOfDay"`
}

// AttendanceRecord is the per-(employee, day) clock record. AttendanceID is
// employeeId_date, which is what makes the daily conditional insert unique.
type AttendanceRecord struct {
	AttendanceID string           `json:"attendanceId" dynamodbav:"attendanceId"`
	EmployeeID   string           `json:"employeeId" dynamodbav:"employeeId"`
	Date         string           `json:"date" dynamodbav:"date"`
	ClockInTime  time.Time        `json:"clockInTime" dynamodbav:"clockInTime"`
	ClockOutTime *time.Time       `json:"clockOutTime,omitempty" dynamodbav:"clockOutTime,omitempty"`
	HoursWorked  float64          `json:"hoursWorked,omitempty" dynamodbav:"hoursWorked"`
	Status       AttendanceStatus `json:"status" dynamodbav:"status"`
}

// IsClockedIn reports whether the record represents an open session.
func (a AttendanceRecord) IsClockedIn() bool {
	return a.Status == StatusAttendancePresent &&
		!a.ClockInTime.IsZero() &&
		(a.ClockOutTime == nil || a.ClockOutTime.IsZero())
}

// DailyStats is the admin dashboard aggregate for one calendar day.
type DailyStats struct {
	Date            string `json:"date"`
	PresentCount    int    `json:"presentCount"`
	ActiveCount     int    `json:"activeCount"`
	ActiveEmployees int    `json:"activeEmployees"`
}
