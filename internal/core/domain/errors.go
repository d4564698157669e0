package domain

import "errors"

// User-visible errors surfaced by the map screen.
var (
	ErrEmptyName        = errors.New("enter a name")
	ErrIncompleteFields = errors.New("fill in all fields")
	ErrPermissionDenied = errors.New("permission to access location was denied")
	ErrNoDraft          = errors.New("no pending point to save")
)

// Status messages shown next to the map.
const (
	MessageWaiting     = "Waiting for location..."
	MessageUnavailable = "Permission to access location was denied"
	MessageLoadingMap  = "Loading map..."
)

// IsValidation reports whether err is a recoverable form validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyName) || errors.Is(err, ErrIncompleteFields)
}
