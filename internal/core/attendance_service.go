package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fieldtrack.service/internal/core/model"
	"fieldtrack.service/internal/ports/messaging"
	"fieldtrack.service/internal/ports/store"
	"github.com/rs/zerolog/log"
)

// AttendanceService owns the per-day clock-in/clock-out state machine:
// none -> clocked in -> clocked out. The daily uniqueness lives in the
// store's conditional insert, so concurrent clock-ins for the same employee
// and day resolve to exactly one winner.
type AttendanceService struct {
	store     store.Store
	table     string
	directory *DirectoryService
	producer  messaging.EventProducer
}

func NewAttendanceService(s store.Store, table string, directory *DirectoryService, producer messaging.EventProducer) *AttendanceService {
	return &AttendanceService{store: s, table: table, directory: directory, producer: producer}
}

// ClockIn opens today's attendance record. A second clock-in on the same
// day fails with ErrAlreadyClockedIn, whatever the state of the first.
func (s *AttendanceService) ClockIn(ctx context.Context, employeeID string) (model.AttendanceRecord, error) {
	if employeeID == "" {
		return model.AttendanceRecord{}, ErrMissingFields
	}

	now := time.Now()
	date := now.Format(dateLayout)
	record := model.AttendanceRecord{
		AttendanceID: attendanceID(employeeID, date),
		EmployeeID:   employeeID,
		Date:         date,
		ClockInTime:  now,
		Status:       model.StatusAttendancePresent,
	}

	err := s.store.PutIfAbsent(ctx, s.table, s.key(record.AttendanceID), record)
	if errors.Is(err, store.ErrDuplicateKey) {
		return model.AttendanceRecord{}, ErrAlreadyClockedIn
	}
	if err != nil {
		return model.AttendanceRecord{}, err
	}
	return record, nil
}

// ClockOut closes today's record and stamps the hours worked. Repeated
// clock-outs are allowed and simply move the clock-out time; rejecting them
// would make retried requests fail for no benefit. The clock-out summary
// event is published fire-and-forget: a queue failure is logged and never
// surfaced, so the caller still gets the single-attempt store semantics.
func (s *AttendanceService) ClockOut(ctx context.Context, employeeID string) (model.AttendanceRecord, error) {
	if employeeID == "" {
		return model.AttendanceRecord{}, ErrMissingFields
	}

	now := time.Now()
	date := now.Format(dateLayout)

	var record model.AttendanceRecord
	err := s.store.Get(ctx, s.table, s.key(attendanceID(employeeID, date)), &record)
	if errors.Is(err, store.ErrNotFound) {
		return model.AttendanceRecord{}, ErrNoActiveSession
	}
	if err != nil {
		return model.AttendanceRecord{}, err
	}

	hours := now.Sub(record.ClockInTime).Hours()
	err = s.store.Update(ctx, s.table, s.key(record.AttendanceID), map[string]any{
		"clockOutTime": now,
		"hoursWorked":  hours,
		"status":       model.StatusAttendancePresent,
	})
	if err != nil {
		return model.AttendanceRecord{}, err
	}

	record.ClockOutTime = &now
	record.HoursWorked = hours

	if s.producer != nil {
		event := messaging.ClockOutEvent{
			AttendanceID: record.AttendanceID,
			EmployeeID:   record.EmployeeID,
			Date:         record.Date,
			ClockInTime:  record.ClockInTime,
			ClockOutTime: now,
			HoursWorked:  hours,
		}
		if err := s.producer.PublishClockOut(ctx, event); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("employee_id", employeeID).
				Msg("Clock-out recorded but summary event publish failed")
		}
	}

	return record, nil
}

// Status returns today's record for the employee, if any, and whether the
// employee is currently clocked in.
func (s *AttendanceService) Status(ctx context.Context, employeeID string) (*model.AttendanceRecord, bool, error) {
	if employeeID == "" {
		return nil, false, ErrMissingFields
	}

	date := time.Now().Format(dateLayout)
	var record model.AttendanceRecord
	err := s.store.Get(ctx, s.table, s.key(attendanceID(employeeID, date)), &record)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &record, record.IsClockedIn(), nil
}

// DailyStats aggregates today's attendance: how many employees showed up,
// how many are still clocked in, and how many employees are active overall.
func (s *AttendanceService) DailyStats(ctx context.Context) (model.DailyStats, error) {
	date := time.Now().Format(dateLayout)

	var records []model.AttendanceRecord
	if err := s.store.Scan(ctx, s.table, &records); err != nil {
		return model.DailyStats{}, err
	}

	stats := model.DailyStats{Date: date}
	for _, record := range records {
		if record.Date != date {
			continue
		}
		if record.Status == model.StatusAttendancePresent {
			stats.PresentCount++
			if record.IsClockedIn() {
				stats.ActiveCount++
			}
		}
	}

	activeEmployees, err := s.directory.CountActive(ctx)
	if err != nil {
		return model.DailyStats{}, err
	}
	stats.ActiveEmployees = activeEmployees

	return stats, nil
}

func (s *AttendanceService) key(attendanceID string) store.Key {
	return store.Key{Name: "attendanceId", Value: attendanceID}
}

func attendanceID(employeeID, date string) string {
	return fmt.Sprintf("%s_%s", employeeID, date)
}
