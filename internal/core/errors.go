package core

import "errors"

// Domain errors. The HTTP layer maps these to status codes; none of them is
// ever retried. ErrInvalidCredentials deliberately covers both an unknown
// employee and a wrong password so login cannot be used to enumerate ids.
var (
	ErrMissingFields      = errors.New("required fields are missing")
	ErrDuplicateEmployee  = errors.New("employee already exists")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyClockedIn   = errors.New("already clocked in today")
	ErrNoActiveSession    = errors.New("no active session today")
)
