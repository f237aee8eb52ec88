package services

import "errors"

// Sentinel errors forming the failure taxonomy shared by all services.
// Handlers translate these into HTTP statuses; anything else is treated as
// a dependency failure and surfaced generically.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)
