package core

import (
	"context"
	"errors"
	"sort"
	"time"

	"fieldtrack.service/internal/core/model"
	"fieldtrack.service/internal/ports/store"
)

// defaultPassword is assigned when an employee is created without one; the
// passwordSet flag stays false until the employee picks their own.
const defaultPassword = "12345"

// CredentialVerifier decides whether a presented password matches the stored
// credential. The directory only ever checks credentials through this, so
// the plaintext comparison can be swapped for a hashed scheme without
// touching any caller.
type CredentialVerifier interface {
	Verify(stored, presented string) bool
}

// PlaintextVerifier compares credentials by string equality, matching the
// legacy contract this service replaces.
type PlaintextVerifier struct{}

func (PlaintextVerifier) Verify(stored, presented string) bool {
	return stored == presented
}

// DirectoryService owns employee records: CRUD, login and password changes.
type DirectoryService struct {
	store    store.Store
	table    string
	verifier CredentialVerifier
}

func NewDirectoryService(s store.Store, table string, verifier CredentialVerifier) *DirectoryService {
	return &DirectoryService{store: s, table: table, verifier: verifier}
}

// Create inserts a new employee. The identifier is caller-supplied and
// globally unique; creation of an existing id fails regardless of the other
// fields. New employees start inactive until their device reports a fix.
func (s *DirectoryService) Create(ctx context.Context, employee model.Employee) (model.Employee, error) {
	if employee.EmployeeID == "" || employee.Name == "" {
		return model.Employee{}, ErrMissingFields
	}

	if employee.Password == "" {
		employee.Password = defaultPassword
	}
	employee.PasswordSet = false
	employee.Status = model.StatusEmployeeInactive
	employee.IsActive = false
	now := time.Now().UTC()
	employee.CreatedAt = now
	employee.UpdatedAt = now
	employee.LastLatitude = nil
	employee.LastLongitude = nil
	employee.LastSeenAt = nil

	err := s.store.PutIfAbsent(ctx, s.table, s.key(employee.EmployeeID), employee)
	if errors.Is(err, store.ErrDuplicateKey) {
		return model.Employee{}, ErrDuplicateEmployee
	}
	if err != nil {
		return model.Employee{}, err
	}
	return employee, nil
}

func (s *DirectoryService) Get(ctx context.Context, employeeID string) (*model.Employee, error) {
	if employeeID == "" {
		return nil, ErrMissingFields
	}

	var employee model.Employee
	err := s.store.Get(ctx, s.table, s.key(employeeID), &employee)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// List returns every employee. No pagination; the directory is small.
func (s *DirectoryService) List(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	if err := s.store.Scan(ctx, s.table, &employees); err != nil {
		return nil, err
	}
	sort.Slice(employees, func(i, j int) bool {
		return employees[i].EmployeeID < employees[j].EmployeeID
	})
	return employees, nil
}

// Authenticate checks the presented credentials and returns the employee
// profile. An unknown id and a wrong password both come back as
// ErrInvalidCredentials.
func (s *DirectoryService) Authenticate(ctx context.Context, employeeID, password string) (*model.Profile, error) {
	if employeeID == "" || password == "" {
		return nil, ErrMissingFields
	}

	var employee model.Employee
	err := s.store.Get(ctx, s.table, s.key(employeeID), &employee)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !s.verifier.Verify(employee.Password, password) {
		return nil, ErrInvalidCredentials
	}

	profile := employee.Profile()
	return &profile, nil
}

// ChangePassword sets a new password. The old password is only required once
// the employee has set one themselves; the initial default can be replaced
// without it.
func (s *DirectoryService) ChangePassword(ctx context.Context, employeeID, oldPassword, newPassword string) error {
	if employeeID == "" || newPassword == "" {
		return ErrMissingFields
	}

	var employee model.Employee
	err := s.store.Get(ctx, s.table, s.key(employeeID), &employee)
	if errors.Is(err, store.ErrNotFound) {
		return ErrEmployeeNotFound
	}
	if err != nil {
		return err
	}

	if employee.PasswordSet && !s.verifier.Verify(employee.Password, oldPassword) {
		return ErrInvalidCredentials
	}

	return s.store.Update(ctx, s.table, s.key(employeeID), map[string]any{
		"password":    newPassword,
		"passwordSet": true,
		"updatedAt":   time.Now().UTC(),
	})
}

// RecordLastLocation stamps the employee's last-known position and marks the
// employee active. Called by the location ledger after a fix is written.
func (s *DirectoryService) RecordLastLocation(ctx context.Context, employeeID string, latitude, longitude float64, seenAt time.Time) error {
	err := s.store.Update(ctx, s.table, s.key(employeeID), map[string]any{
		"lastLatitude":  latitude,
		"lastLongitude": longitude,
		"lastSeenAt":    seenAt,
		"status":        model.StatusEmployeeActive,
		"isActive":      true,
		"updatedAt":     time.Now().UTC(),
	})
	if errors.Is(err, store.ErrNotFound) {
		return ErrEmployeeNotFound
	}
	return err
}

// CountActive counts employees currently flagged active.
func (s *DirectoryService) CountActive(ctx context.Context) (int, error) {
	employees, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, employee := range employees {
		if employee.IsActive {
			count++
		}
	}
	return count, nil
}

func (s *DirectoryService) key(employeeID string) store.Key {
	return store.Key{Name: "employeeId", Value: employeeID}
}
