package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"fieldtrack.service/internal/core/model"
	"fieldtrack.service/internal/ports/store"
	"github.com/rs/zerolog/log"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// defaultBattery is assumed when the device does not report battery level.
const defaultBattery = 100

// RecordFixInput carries one reported location sample. Pointer fields
// distinguish "absent" from zero values so validation can reject a missing
// coordinate without rejecting latitude 0.
type RecordFixInput struct {
	EmployeeID string
	Latitude   *float64
	Longitude  *float64
	Speed      *float64
	Accuracy   *float64
	Battery    *float64
	DeviceID   string
	// Timestamp is the capture instant in epoch milliseconds. Defaults to
	// the ingestion time.
	Timestamp *int64
}

// LocationService is the append-only ledger of location fixes and its
// derived views.
type LocationService struct {
	store     store.Store
	table     string
	directory *DirectoryService
}

func NewLocationService(s store.Store, table string, directory *DirectoryService) *LocationService {
	return &LocationService{store: s, table: table, directory: directory}
}

// Record appends one fix to the ledger and stamps the owning employee's
// last-known location. The fix write is the operation's contract; the
// employee update is a side effect and its failure is only logged.
func (s *LocationService) Record(ctx context.Context, input RecordFixInput) (model.LocationFix, error) {
	if input.EmployeeID == "" || input.Latitude == nil || input.Longitude == nil {
		return model.LocationFix{}, ErrMissingFields
	}

	ts := time.Now().UnixMilli()
	if input.Timestamp != nil {
		ts = *input.Timestamp
	}
	capturedAt := time.UnixMilli(ts)

	fix := model.LocationFix{
		LocationID: fmt.Sprintf("%s_%d", input.EmployeeID, ts),
		EmployeeID: input.EmployeeID,
		Latitude:   *input.Latitude,
		Longitude:  *input.Longitude,
		Battery:    defaultBattery,
		DeviceID:   input.DeviceID,
		Timestamp:  ts,
		Date:       capturedAt.Format(dateLayout),
		TimeOfDay:  capturedAt.Format(timeLayout),
	}
	if input.Speed != nil {
		fix.Speed = *input.Speed
	}
	if input.Accuracy != nil {
		fix.Accuracy = *input.Accuracy
	}
	if input.Battery != nil {
		fix.Battery = *input.Battery
	}

	key := store.Key{Name: "locationId", Value: fix.LocationID}
	if err := s.store.Put(ctx, s.table, key, fix); err != nil {
		return model.LocationFix{}, err
	}

	err := s.directory.RecordLastLocation(ctx, fix.EmployeeID, fix.Latitude, fix.Longitude, capturedAt)
	if err != nil && !errors.Is(err, ErrEmployeeNotFound) {
		log.Ctx(ctx).Warn().Err(err).Str("employee_id", fix.EmployeeID).
			Msg("Fix recorded but employee last-location update failed")
	}

	return fix, nil
}

// LatestPerEmployee returns the most recent fix for each employee that has
// ever reported, newest first. On equal capture timestamps the fix with the
// greater record id wins, so the result does not depend on scan order.
func (s *LocationService) LatestPerEmployee(ctx context.Context) ([]model.LocationFix, error) {
	fixes, err := s.scanAll(ctx)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]model.LocationFix)
	for _, fix := range fixes {
		current, seen := latest[fix.EmployeeID]
		if !seen || fix.Timestamp > current.Timestamp ||
			(fix.Timestamp == current.Timestamp && fix.LocationID > current.LocationID) {
			latest[fix.EmployeeID] = fix
		}
	}

	result := make([]model.LocationFix, 0, len(latest))
	for _, fix := range latest {
		result = append(result, fix)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp > result[j].Timestamp
		}
		return result[i].LocationID > result[j].LocationID
	})
	return result, nil
}

// History returns an employee's fixes in capture order, oldest first, the
// order a polyline is drawn in. An empty date means all days.
func (s *LocationService) History(ctx context.Context, employeeID, date string) ([]model.LocationFix, error) {
	fixes, err := s.employeeFixes(ctx, employeeID, date)
	if err != nil {
		return nil, err
	}
	sortAscending(fixes)
	return fixes, nil
}

// RecentActivity returns the same set as History but newest first, the
// order an activity feed is rendered in. The two orders are intentionally
// distinct operations, not one view reversed by the caller.
func (s *LocationService) RecentActivity(ctx context.Context, employeeID, date string) ([]model.LocationFix, error) {
	fixes, err := s.employeeFixes(ctx, employeeID, date)
	if err != nil {
		return nil, err
	}
	sort.Slice(fixes, func(i, j int) bool {
		if fixes[i].Timestamp != fixes[j].Timestamp {
			return fixes[i].Timestamp > fixes[j].Timestamp
		}
		return fixes[i].LocationID > fixes[j].LocationID
	})
	return fixes, nil
}

// HistoryRange returns an employee's fixes with capture timestamps in
// [start, end] epoch milliseconds, oldest first.
func (s *LocationService) HistoryRange(ctx context.Context, employeeID string, start, end int64) ([]model.LocationFix, error) {
	if employeeID == "" {
		return nil, ErrMissingFields
	}

	all, err := s.scanAll(ctx)
	if err != nil {
		return nil, err
	}

	fixes := make([]model.LocationFix, 0)
	for _, fix := range all {
		if fix.EmployeeID == employeeID && fix.Timestamp >= start && fix.Timestamp <= end {
			fixes = append(fixes, fix)
		}
	}
	sortAscending(fixes)
	return fixes, nil
}

func (s *LocationService) employeeFixes(ctx context.Context, employeeID, date string) ([]model.LocationFix, error) {
	if employeeID == "" {
		return nil, ErrMissingFields
	}

	all, err := s.scanAll(ctx)
	if err != nil {
		return nil, err
	}

	fixes := make([]model.LocationFix, 0)
	for _, fix := range all {
		if fix.EmployeeID == employeeID && (date == "" || fix.Date == date) {
			fixes = append(fixes, fix)
		}
	}
	return fixes, nil
}

func (s *LocationService) scanAll(ctx context.Context) ([]model.LocationFix, error) {
	var fixes []model.LocationFix
	if err := s.store.Scan(ctx, s.table, &fixes); err != nil {
		return nil, err
	}
	return fixes, nil
}

func sortAscending(fixes []model.LocationFix) {
	sort.Slice(fixes, func(i, j int) bool {
		if fixes[i].Timestamp != fixes[j].Timestamp {
			return fixes[i].Timestamp < fixes[j].Timestamp
		}
		return fixes[i].LocationID < fixes[j].LocationID
	})
}
